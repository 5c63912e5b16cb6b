// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/xataio/pgshift/pkg/transformers"
)

type Transformer struct {
	TransformFn         func(transformers.Value) (string, error)
	TypeFn              func() transformers.TransformerType
	ReferencedColumnsFn func() []string
}

func (m *Transformer) Transform(_ context.Context, val transformers.Value) (string, error) {
	return m.TransformFn(val)
}

func (m *Transformer) Type() transformers.TransformerType {
	if m.TypeFn == nil {
		return "mock"
	}
	return m.TypeFn()
}

func (m *Transformer) ReferencedColumns() []string {
	if m.ReferencedColumnsFn == nil {
		return nil
	}
	return m.ReferencedColumnsFn()
}

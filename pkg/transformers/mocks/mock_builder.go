// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"sync"

	"github.com/xataio/pgshift/pkg/transformers"
)

// TransformerBuilder records the configs it is asked to build.
type TransformerBuilder struct {
	NewFn func(*transformers.Config) (transformers.Transformer, error)

	mu    sync.Mutex
	built []transformers.Config
}

func (m *TransformerBuilder) New(cfg *transformers.Config) (transformers.Transformer, error) {
	m.mu.Lock()
	m.built = append(m.built, *cfg)
	m.mu.Unlock()
	return m.NewFn(cfg)
}

func (m *TransformerBuilder) Built() []transformers.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transformers.Config(nil), m.built...)
}

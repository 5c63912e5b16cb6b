// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"fmt"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/google/uuid"
	"github.com/xataio/pgshift/pkg/transformers"
)

type UUIDTransformer struct {
	transformer *greenmasktransformers.RandomUuidTransformer
}

var uuidParams = []transformers.Parameter{generatorParam}

func NewUUIDTransformer(params transformers.ParameterValues) (*UUIDTransformer, error) {
	t := greenmasktransformers.NewRandomUuidTransformer()
	if err := setGenerator(t, params); err != nil {
		return nil, err
	}
	return &UUIDTransformer{
		transformer: t,
	}, nil
}

// Transform accepts any value. Valid UUIDs are hashed by their bytes, so the
// deterministic generator ignores formatting differences.
func (ut *UUIDTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	toTransform := []byte(value.TransformValue)
	if parsed, err := uuid.Parse(value.TransformValue); err == nil {
		toTransform = parsed[:]
	}

	ret, err := ut.transformer.Transform(toTransform)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(ret), nil
}

func (ut *UUIDTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskUUID
}

func UUIDTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random UUID, optionally deterministic",
		Parameters:  uuidParams,
	}
}

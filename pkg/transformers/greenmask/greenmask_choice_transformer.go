// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"errors"
	"fmt"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/eminano/greenmask/pkg/toolkit"
	"github.com/xataio/pgshift/pkg/transformers"
)

type ChoiceTransformer struct {
	transformer *greenmasktransformers.RandomChoiceTransformer
}

var (
	errChoicesEmpty = errors.New("greenmask-choice: choices must not be empty")
	choiceParams    = []transformers.Parameter{
		{
			Name:          "choices",
			SupportedType: "array",
			Required:      true,
		},
		generatorParam,
	}
)

func NewChoiceTransformer(params transformers.ParameterValues) (*ChoiceTransformer, error) {
	choices, _, err := transformers.FindParameterArray[any](params, "choices")
	if err != nil {
		return nil, fmt.Errorf("greenmask-choice: choices must be an array: %w", err)
	}
	if len(choices) == 0 {
		return nil, errChoicesEmpty
	}

	choicesRaw := make([]*toolkit.RawValue, len(choices))
	for i, choice := range choices {
		choicesRaw[i] = &toolkit.RawValue{
			Data:   []byte(fmt.Sprint(choice)),
			IsNull: false,
		}
	}

	t := greenmasktransformers.NewRandomChoiceTransformer(choicesRaw)
	if err := setGenerator(t, params); err != nil {
		return nil, err
	}
	return &ChoiceTransformer{
		transformer: t,
	}, nil
}

func (t *ChoiceTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	ret, err := t.transformer.Transform([]byte(value.TransformValue))
	if err != nil {
		return "", err
	}
	return string(ret.Data), nil
}

func (t *ChoiceTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskChoice
}

func ChoiceTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random value picked from a list, optionally deterministic",
		Parameters:  choiceParams,
	}
}

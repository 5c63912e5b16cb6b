// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"fmt"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type FirstNameTransformer struct {
	transformer *greenmasktransformers.RandomPersonTransformer
}

var firstNameParams = []transformers.Parameter{
	{
		Name:          "gender",
		SupportedType: "string",
		Default:       "any",
		Values:        []any{"any", "female", "male"},
	},
	generatorParam,
}

func NewFirstNameTransformer(params transformers.ParameterValues) (*FirstNameTransformer, error) {
	gender, err := transformers.FindParameterWithDefault(params, "gender", "any")
	if err != nil {
		return nil, fmt.Errorf("greenmask-first-name: gender must be a string: %w", err)
	}

	t := greenmasktransformers.NewRandomPersonTransformer(toGreenmaskGender(gender), nil)
	if err := setGenerator(t, params); err != nil {
		return nil, err
	}

	return &FirstNameTransformer{
		transformer: t,
	}, nil
}

func (t *FirstNameTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	ret, err := t.transformer.GetFullName("", []byte(value.TransformValue))
	if err != nil {
		return "", err
	}
	return ret["FirstName"], nil
}

func (t *FirstNameTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskFirstName
}

func FirstNameTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random first name by gender, optionally deterministic",
		Parameters:  firstNameParams,
	}
}

func toGreenmaskGender(gender string) string {
	switch gender {
	case "female":
		return greenmasktransformers.FemaleGenderName
	case "male":
		return greenmasktransformers.MaleGenderName
	default:
		return greenmasktransformers.AnyGenderName
	}
}

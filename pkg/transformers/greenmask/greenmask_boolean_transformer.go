// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"strconv"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type BooleanTransformer struct {
	transformer *greenmasktransformers.RandomBoolean
}

var booleanParams = []transformers.Parameter{generatorParam}

func NewBooleanTransformer(params transformers.ParameterValues) (*BooleanTransformer, error) {
	t := greenmasktransformers.NewRandomBoolean()
	if err := setGenerator(t, params); err != nil {
		return nil, err
	}
	return &BooleanTransformer{
		transformer: t,
	}, nil
}

func (bt *BooleanTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	ret, err := bt.transformer.Transform([]byte(value.TransformValue))
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(bool(ret)), nil
}

func (bt *BooleanTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskBoolean
}

func BooleanTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random boolean, optionally deterministic",
		Parameters:  booleanParams,
	}
}

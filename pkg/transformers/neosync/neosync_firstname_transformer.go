// SPDX-License-Identifier: Apache-2.0

package neosync

import (
	"fmt"

	neosynctransformers "github.com/nucleuscloud/neosync/worker/pkg/benthos/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type FirstNameTransformer struct {
	*transformer[string]
}

var firstNameParams = []transformers.Parameter{seedParam, preserveLengthParam, maxLengthParam}

func NewFirstNameTransformer(params transformers.ParameterValues) (*FirstNameTransformer, error) {
	preserveLength, err := findParameter[bool](params, "preserve_length")
	if err != nil {
		return nil, fmt.Errorf("neosync-first-name: preserve_length must be a boolean: %w", err)
	}

	maxLength, err := findParameter[int](params, "max_length")
	if err != nil {
		return nil, fmt.Errorf("neosync-first-name: max_length must be an integer: %w", err)
	}

	seed, err := findParameter[int](params, "seed")
	if err != nil {
		return nil, fmt.Errorf("neosync-first-name: seed must be an integer: %w", err)
	}

	opts, err := neosynctransformers.NewTransformFirstNameOpts(toInt64Ptr(maxLength), preserveLength, toInt64Ptr(seed))
	if err != nil {
		return nil, fmt.Errorf("neosync-first-name: %w: %w", transformers.ErrInvalidParameters, err)
	}

	return &FirstNameTransformer{
		transformer: New[string](neosynctransformers.NewTransformFirstName(), opts, transformers.NeosyncFirstName),
	}, nil
}

func FirstNameTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random first name, reproducible with a seed",
		Parameters:  firstNameParams,
	}
}

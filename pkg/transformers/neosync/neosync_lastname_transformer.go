// SPDX-License-Identifier: Apache-2.0

package neosync

import (
	"fmt"

	neosynctransformers "github.com/nucleuscloud/neosync/worker/pkg/benthos/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type LastNameTransformer struct {
	*transformer[string]
}

var lastNameParams = []transformers.Parameter{seedParam, preserveLengthParam, maxLengthParam}

func NewLastNameTransformer(params transformers.ParameterValues) (*LastNameTransformer, error) {
	preserveLength, err := findParameter[bool](params, "preserve_length")
	if err != nil {
		return nil, fmt.Errorf("neosync-last-name: preserve_length must be a boolean: %w", err)
	}

	maxLength, err := findParameter[int](params, "max_length")
	if err != nil {
		return nil, fmt.Errorf("neosync-last-name: max_length must be an integer: %w", err)
	}

	seed, err := findParameter[int](params, "seed")
	if err != nil {
		return nil, fmt.Errorf("neosync-last-name: seed must be an integer: %w", err)
	}

	opts, err := neosynctransformers.NewTransformLastNameOpts(toInt64Ptr(maxLength), preserveLength, toInt64Ptr(seed))
	if err != nil {
		return nil, fmt.Errorf("neosync-last-name: %w: %w", transformers.ErrInvalidParameters, err)
	}

	return &LastNameTransformer{
		transformer: New[string](neosynctransformers.NewTransformLastName(), opts, transformers.NeosyncLastName),
	}, nil
}

func LastNameTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random last name, reproducible with a seed",
		Parameters:  lastNameParams,
	}
}

// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"time"

	greenmaskgenerators "github.com/eminano/greenmask/pkg/generators"
	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

const (
	random        = "random"
	deterministic = "deterministic"
)

var generatorParam = transformers.Parameter{
	Name:          "generator",
	SupportedType: "string",
	Default:       random,
	Values:        []any{random, deterministic},
}

// setGenerator configures the byte generator of the greenmask transformer.
// The deterministic generator hashes the original value, so equal inputs
// produce equal outputs.
func setGenerator(t greenmasktransformers.Transformer, params transformers.ParameterValues) error {
	generatorType, err := transformers.FindParameterWithDefault(params, "generator", random)
	if err != nil {
		return err
	}

	var greenmaskGenerator greenmaskgenerators.Generator
	switch generatorType {
	case random:
		greenmaskGenerator = greenmaskgenerators.NewRandomBytes(time.Now().UnixNano(), t.GetRequiredGeneratorByteLength())
	case deterministic:
		var err error
		greenmaskGenerator, err = greenmaskgenerators.GetHashBytesGen([]byte{}, t.GetRequiredGeneratorByteLength())
		if err != nil {
			return err
		}
	default:
		return transformers.ErrUnsupportedGenerator
	}

	return t.SetGenerator(greenmaskGenerator)
}

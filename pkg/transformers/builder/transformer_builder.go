// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"fmt"
	"sort"

	"github.com/xataio/pgshift/pkg/otel"
	"github.com/xataio/pgshift/pkg/transformers"
	"github.com/xataio/pgshift/pkg/transformers/greenmask"
	"github.com/xataio/pgshift/pkg/transformers/instrumentation"
	"github.com/xataio/pgshift/pkg/transformers/neosync"
)

type TransformerBuilder struct {
	instrumentation *otel.Instrumentation
}

type Option func(b *TransformerBuilder)

// Info is the public description of a transformer kind.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewTransformerBuilder(opts ...Option) *TransformerBuilder {
	b := &TransformerBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func WithInstrumentation(i *otel.Instrumentation) Option {
	return func(b *TransformerBuilder) {
		b.instrumentation = i
	}
}

var TransformersMap = map[transformers.TransformerType]struct {
	Definition *transformers.Definition
	BuildFn    func(cfg *transformers.Config) (transformers.Transformer, error)
}{
	transformers.Null: {
		Definition: transformers.NullTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewNullTransformer(cfg.Parameters)
		},
	},
	transformers.Sequence: {
		Definition: transformers.SequenceTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewSequenceTransformer(cfg.Parameters)
		},
	},
	transformers.Reverse: {
		Definition: transformers.ReverseTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewReverseTransformer(cfg.Parameters)
		},
	},
	transformers.Static: {
		Definition: transformers.StaticTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewStaticTransformer(cfg.Parameters)
		},
	},
	transformers.From: {
		Definition: transformers.FromTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewFromTransformer(cfg.Parameters)
		},
	},
	transformers.Regex: {
		Definition: transformers.RegexTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewRegexTransformer(cfg.Parameters)
		},
	},
	transformers.Date: {
		Definition: transformers.DateTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewDateTransformer(cfg.Parameters)
		},
	},
	transformers.FirstName: {
		Definition: transformers.FirstNameTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewFirstNameTransformer(cfg.Parameters)
		},
	},
	transformers.LastName: {
		Definition: transformers.LastNameTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewLastNameTransformer(cfg.Parameters)
		},
	},
	transformers.Email: {
		Definition: transformers.EmailTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewEmailTransformer(cfg.Parameters)
		},
	},
	transformers.City: {
		Definition: transformers.CityTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewCityTransformer(cfg.Parameters)
		},
	},
	transformers.State: {
		Definition: transformers.StateTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewStateTransformer(cfg.Parameters)
		},
	},
	transformers.ZipCode: {
		Definition: transformers.ZipCodeTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewZipCodeTransformer(cfg.Parameters)
		},
	},
	transformers.Street: {
		Definition: transformers.StreetTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewStreetTransformer(cfg.Parameters)
		},
	},
	transformers.Random: {
		Definition: transformers.RandomTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewRandomTransformer(cfg.Parameters)
		},
	},
	transformers.RandomValues: {
		Definition: transformers.RandomValuesTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewRandomValuesTransformer(cfg.Parameters)
		},
	},
	transformers.Masking: {
		Definition: transformers.MaskingTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewMaskingTransformer(cfg.Parameters)
		},
	},
	transformers.Template: {
		Definition: transformers.TemplateTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewTemplateTransformer(cfg.Parameters)
		},
	},
	transformers.JSON: {
		Definition: transformers.JSONTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewJSONTransformer(cfg.Parameters)
		},
	},
	transformers.PhoneNumber: {
		Definition: transformers.PhoneNumberTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewPhoneNumberTransformer(cfg.Parameters)
		},
	},
	transformers.String: {
		Definition: transformers.StringTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return transformers.NewStringTransformer(cfg.Parameters)
		},
	},
	// Greenmask transformers
	transformers.GreenmaskString: {
		Definition: greenmask.StringTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewStringTransformer(cfg.Parameters)
		},
	},
	transformers.GreenmaskChoice: {
		Definition: greenmask.ChoiceTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewChoiceTransformer(cfg.Parameters)
		},
	},
	transformers.GreenmaskUUID: {
		Definition: greenmask.UUIDTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewUUIDTransformer(cfg.Parameters)
		},
	},
	transformers.GreenmaskInteger: {
		Definition: greenmask.IntegerTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewIntegerTransformer(cfg.Parameters)
		},
	},
	transformers.GreenmaskBoolean: {
		Definition: greenmask.BooleanTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewBooleanTransformer(cfg.Parameters)
		},
	},
	transformers.GreenmaskDate: {
		Definition: greenmask.DateTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewDateTransformer(cfg.Parameters)
		},
	},
	transformers.GreenmaskFirstName: {
		Definition: greenmask.FirstNameTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return greenmask.NewFirstNameTransformer(cfg.Parameters)
		},
	},
	// Neosync transformers
	transformers.NeosyncFirstName: {
		Definition: neosync.FirstNameTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return neosync.NewFirstNameTransformer(cfg.Parameters)
		},
	},
	transformers.NeosyncLastName: {
		Definition: neosync.LastNameTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return neosync.NewLastNameTransformer(cfg.Parameters)
		},
	},
	transformers.NeosyncEmail: {
		Definition: neosync.EmailTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return neosync.NewEmailTransformer(cfg.Parameters)
		},
	},
	transformers.NeosyncString: {
		Definition: neosync.StringTransformerDefinition(),
		BuildFn: func(cfg *transformers.Config) (transformers.Transformer, error) {
			return neosync.NewStringTransformer(cfg.Parameters)
		},
	},
}

// New validates the transformer configuration and builds the transformer. All
// parameter errors are reported here, before any value is transformed.
func (b *TransformerBuilder) New(cfg *transformers.Config) (transformers.Transformer, error) {
	transformer, ok := TransformersMap[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("%w: unexpected transformer name '%s'", transformers.ErrUnsupportedTransformer, cfg.Name)
	}

	if err := transformers.ValidateParameters(cfg.Parameters, transformers.ParameterNames(transformer.Definition)); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	if err := transformers.ValidateRequiredParameters(cfg.Parameters, transformer.Definition); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	t, err := transformer.BuildFn(cfg)
	if err != nil {
		return nil, err
	}

	if b.instrumentation != nil {
		return instrumentation.NewTransformer(t, b.instrumentation)
	}
	return t, nil
}

// New builds a transformer without instrumentation.
func New(cfg *transformers.Config) (transformers.Transformer, error) {
	return NewTransformerBuilder().New(cfg)
}

// List returns the name and description of every supported transformer,
// sorted by name.
func List() []Info {
	infos := make([]Info, 0, len(TransformersMap))
	for name, t := range TransformersMap {
		infos = append(infos, Info{
			Name:        string(name),
			Description: t.Definition.Description,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

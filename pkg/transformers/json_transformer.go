// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	greenmasktoolkit "github.com/eminano/greenmask/pkg/toolkit"
	"github.com/tidwall/gjson"
)

const (
	jsonDeleteOpName = "delete"
	jsonSetOpName    = "set"
)

var (
	errOperationsMustBeProvided      = errors.New("operations parameter must be provided")
	errOperationsCannotBeEmpty       = errors.New("operations cannot be empty")
	errInvalidOperationsType         = errors.New("unknown operation name, must be one of 'set' or 'delete'")
	errOperationNameMustBeProvided   = errors.New("operation name must be provided in the operation definition")
	errValueOrTemplateMustBeProvided = errors.New("either value or value_template must be provided in the 'set' operation definition")
	errPathMustBeProvided            = errors.New("path must be provided in the operation definition")
	errInvalidJSON                   = errors.New("json: value is not valid JSON")
	jsonParams                       = []Parameter{
		{
			Name:          "operations",
			SupportedType: "array",
			Required:      true,
		},
	}
)

// JSONTransformer applies an ordered list of set/delete operations to a JSON
// document stored in the column.
type JSONTransformer struct {
	operations []*jsonOperation
	buf        *bytes.Buffer
}

func NewJSONTransformer(params ParameterValues) (*JSONTransformer, error) {
	operations, err := getOperationsParam(params)
	if err != nil {
		return nil, fmt.Errorf("json: error finding operations parameter: %w", err)
	}

	for idx, o := range operations {
		if o.valueTemplate == "" {
			continue
		}
		tmpl, err := template.New(fmt.Sprintf("op[%d] %s %s", idx, o.operation, o.path)).
			Funcs(greenmasktoolkit.FuncMap()).
			Funcs(sprig.FuncMap()).
			Parse(o.valueTemplate)
		if err != nil {
			return nil, fmt.Errorf("json: error parsing template op[%d] with path \"%s\": %w: %w", idx, o.path, ErrInvalidParameters, err)
		}
		o.tmpl = tmpl
	}

	return &JSONTransformer{
		operations: operations,
		buf:        bytes.NewBuffer(nil),
	}, nil
}

func (jt *JSONTransformer) Transform(_ context.Context, value Value) (string, error) {
	// empty fields are NULL, nothing to transform
	if value.TransformValue == "" {
		return "", nil
	}
	if !gjson.Valid(value.TransformValue) {
		return "", errInvalidJSON
	}

	jsonVal := &jsonValue{row: value}
	res := []byte(value.TransformValue)
	var err error
	for idx, op := range jt.operations {
		res, err = op.apply(res, jsonVal, jt.buf)
		if err != nil {
			return "", fmt.Errorf("json: cannot apply \"%s\" operation[%d] with path %s: %w", op.operation, idx, op.path, err)
		}
	}

	return string(res), nil
}

func (jt *JSONTransformer) Type() TransformerType {
	return JSON
}

func JSONTransformerDefinition() *Definition {
	return &Definition{
		Description: "Sets or deletes paths of a JSON document",
		Parameters:  jsonParams,
	}
}

func getOperationsParam(params ParameterValues) ([]*jsonOperation, error) {
	arrayAny, found, err := FindParameter[[]any](params, "operations")
	if err != nil {
		return nil, fmt.Errorf("operations must be an array: %w", err)
	}
	if !found {
		return nil, errOperationsMustBeProvided
	}
	if len(arrayAny) == 0 {
		return nil, errOperationsCannotBeEmpty
	}

	operations := make([]*jsonOperation, 0, len(arrayAny))
	for _, valAny := range arrayAny {
		val, ok := toStringMap(valAny)
		if !ok {
			return nil, fmt.Errorf("invalid element type in operations array, got %T: %w", valAny, ErrInvalidParameters)
		}

		op := &jsonOperation{}
		op.operation, found, err = FindParameter[string](val, "operation")
		if err != nil {
			return nil, fmt.Errorf("operation name must be a string: %w", err)
		}
		if !found {
			return nil, errOperationNameMustBeProvided
		}
		if op.operation != jsonSetOpName && op.operation != jsonDeleteOpName {
			return nil, errInvalidOperationsType
		}

		op.path, found, err = FindParameter[string](val, "path")
		if err != nil {
			return nil, fmt.Errorf("path must be a string: %w", err)
		}
		if !found || op.path == "" {
			return nil, errPathMustBeProvided
		}

		op.errorNotExist, err = FindParameterWithDefault(val, "error_not_exist", false)
		if err != nil {
			return nil, fmt.Errorf("error_not_exist must be a boolean: %w", err)
		}

		if op.operation == jsonDeleteOpName {
			operations = append(operations, op)
			continue
		}

		var valueTemplateFound, valueFound bool
		op.value, valueFound, err = FindParameter[any](val, "value")
		if err != nil {
			return nil, fmt.Errorf("cannot read parameter 'value': %w", err)
		}

		op.valueTemplate, valueTemplateFound, err = FindParameter[string](val, "value_template")
		if err != nil {
			return nil, fmt.Errorf("value_template must be a string: %w", err)
		}

		if !valueFound && !valueTemplateFound {
			return nil, errValueOrTemplateMustBeProvided
		}

		operations = append(operations, op)
	}

	return operations, nil
}

// toStringMap accepts both map[string]any and the map[any]any some YAML
// decoders produce.
func toStringMap(v any) (ParameterValues, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case ParameterValues:
		return m, true
	case map[any]any:
		res := make(ParameterValues, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			res[key] = val
		}
		return res, true
	default:
		return nil, false
	}
}

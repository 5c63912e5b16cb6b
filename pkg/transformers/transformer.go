// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Transformer produces the output value for a single column of a row. Implementations
// must not mutate the value they receive and must not keep references to it.
type Transformer interface {
	Transform(context.Context, Value) (string, error)
	Type() TransformerType
}

// ColumnReferencer is implemented by transformers that read other columns of
// the row, so that references can be checked before any row is processed.
type ColumnReferencer interface {
	ReferencedColumns() []string
}

type Config struct {
	Name       TransformerType
	Parameters ParameterValues
}

type TransformerType string

const (
	Null         TransformerType = "null"
	Sequence     TransformerType = "sequence"
	Reverse      TransformerType = "reverse"
	Static       TransformerType = "static"
	From         TransformerType = "from"
	Regex        TransformerType = "regex"
	Date         TransformerType = "date"
	FirstName    TransformerType = "first-name"
	LastName     TransformerType = "last-name"
	Email        TransformerType = "email"
	City         TransformerType = "city"
	State        TransformerType = "state"
	ZipCode      TransformerType = "zip-code"
	Street       TransformerType = "street"
	Random       TransformerType = "random"
	RandomValues TransformerType = "random-values"

	Masking     TransformerType = "masking"
	Template    TransformerType = "template"
	JSON        TransformerType = "json"
	PhoneNumber TransformerType = "phone-number"
	String      TransformerType = "string"

	GreenmaskString    TransformerType = "greenmask-string"
	GreenmaskChoice    TransformerType = "greenmask-choice"
	GreenmaskUUID      TransformerType = "greenmask-uuid"
	GreenmaskInteger   TransformerType = "greenmask-integer"
	GreenmaskBoolean   TransformerType = "greenmask-boolean"
	GreenmaskDate      TransformerType = "greenmask-date"
	GreenmaskFirstName TransformerType = "greenmask-first-name"

	NeosyncFirstName TransformerType = "neosync-first-name"
	NeosyncLastName  TransformerType = "neosync-last-name"
	NeosyncEmail     TransformerType = "neosync-email"
	NeosyncString    TransformerType = "neosync-string"
)

type ParameterValues map[string]any

// Definition describes a transformer kind: what it does and which parameters
// it accepts.
type Definition struct {
	Description string
	Parameters  []Parameter
}

type Parameter struct {
	Name          string
	SupportedType string
	Default       any
	Required      bool
	Values        []any
}

var (
	ErrUnsupportedTransformer = errors.New("unsupported transformer config")
	ErrUnsupportedGenerator   = errors.New("transformer doesn't support the configured generator")
	ErrInvalidParameters      = errors.New("invalid transformer parameters")
	ErrUnknownParameter       = errors.New("unknown transformer parameter")
	ErrMissingParameter       = errors.New("missing required transformer parameter")
	ErrColumnNotFound         = errors.New("column not found in row")
)

// FindParameter returns the parameter with the given name, converted to T.
// Integer parameters decoded as floats (JSON) or int64 are normalised when T is int.
func FindParameter[T any](params ParameterValues, name string) (T, bool, error) {
	valAny, found := params[name]
	if !found {
		return *new(T), false, nil
	}

	val, ok := valAny.(T)
	if ok {
		return val, true, nil
	}

	if converted, ok := convertNumber[T](valAny); ok {
		return converted, true, nil
	}

	return *new(T), true, ErrInvalidParameters
}

func FindParameterWithDefault[T any](params ParameterValues, name string, defaultVal T) (T, error) {
	val, found, err := FindParameter[T](params, name)
	if err != nil {
		return val, err
	}
	if !found {
		return defaultVal, nil
	}
	return val, nil
}

// FindParameterArray returns an array parameter with all its elements
// converted to T. YAML and JSON decoders produce []any, so elements are
// checked one by one.
func FindParameterArray[T any](params ParameterValues, name string) ([]T, bool, error) {
	valAny, found := params[name]
	if !found {
		return nil, false, nil
	}

	switch arr := valAny.(type) {
	case []T:
		return arr, true, nil
	case []any:
		vals := make([]T, 0, len(arr))
		for _, elemAny := range arr {
			elem, ok := elemAny.(T)
			if !ok {
				return nil, true, fmt.Errorf("unexpected element type %T: %w", elemAny, ErrInvalidParameters)
			}
			vals = append(vals, elem)
		}
		return vals, true, nil
	case []string:
		vals := make([]T, 0, len(arr))
		for _, s := range arr {
			elem, ok := any(s).(T)
			if !ok {
				return nil, true, fmt.Errorf("unexpected element type string: %w", ErrInvalidParameters)
			}
			vals = append(vals, elem)
		}
		return vals, true, nil
	default:
		return nil, true, ErrInvalidParameters
	}
}

// ValidateParameters returns an error if any of the provided parameters is not
// part of the accepted names.
func ValidateParameters(params ParameterValues, accepted []string) error {
	for name := range params {
		if !slices.Contains(accepted, name) {
			return fmt.Errorf("%w: '%s'", ErrUnknownParameter, name)
		}
	}
	return nil
}

// ValidateRequiredParameters returns an error if any of the required parameters
// of the definition is missing.
func ValidateRequiredParameters(params ParameterValues, definition *Definition) error {
	for _, p := range definition.Parameters {
		if !p.Required {
			continue
		}
		if _, found := params[p.Name]; !found {
			return fmt.Errorf("%w: '%s'", ErrMissingParameter, p.Name)
		}
	}
	return nil
}

func ParameterNames(definition *Definition) []string {
	names := make([]string, 0, len(definition.Parameters))
	for _, p := range definition.Parameters {
		names = append(names, p.Name)
	}
	return names
}

func convertNumber[T any](v any) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case int:
		switch n := v.(type) {
		case int64:
			return any(int(n)).(T), true
		case int32:
			return any(int(n)).(T), true
		case float64:
			if n != float64(int(n)) {
				return zero, false
			}
			return any(int(n)).(T), true
		}
	case float64:
		switch n := v.(type) {
		case int:
			return any(float64(n)).(T), true
		case int64:
			return any(float64(n)).(T), true
		}
	}
	return zero, false
}

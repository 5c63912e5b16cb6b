// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	jsonSetOpt          = &sjson.Options{ReplaceInPlace: true}
	errJSONPathNotFound = errors.New("path not found")
)

type jsonOperation struct {
	operation     string
	value         any
	valueTemplate string
	path          string
	errorNotExist bool
	tmpl          *template.Template
}

func (o *jsonOperation) apply(inp []byte, jsonVal *jsonValue, buf *bytes.Buffer) ([]byte, error) {
	jsonVal.setValue(inp, o.path)
	if o.errorNotExist && !jsonVal.exists {
		return nil, errJSONPathNotFound
	}

	var res []byte
	var err error
	switch o.operation {
	case jsonSetOpName:
		var newValue any
		if o.tmpl != nil {
			buf.Reset()
			if err = o.tmpl.Execute(buf, jsonVal); err != nil {
				return nil, fmt.Errorf("error executing template: %w", err)
			}
			newValue = buf.String()
		} else {
			newValue = o.value
		}
		res, err = sjson.SetBytesOptions(inp, o.path, newValue, jsonSetOpt)
		if err != nil {
			return nil, fmt.Errorf("error applying set operation: %w", err)
		}

	case jsonDeleteOpName:
		res, err = sjson.DeleteBytes(inp, o.path)
		if err != nil {
			return nil, fmt.Errorf("error applying delete operation: %w", err)
		}

	default:
		return nil, fmt.Errorf("unknown operation %s", o.operation)
	}

	return res, nil
}

// jsonValue is the data available to value templates: the current value at
// the operation path and the row being transformed.
type jsonValue struct {
	exists bool
	value  any
	row    Value
}

func (jv *jsonValue) setValue(data []byte, path string) {
	res := gjson.GetBytes(data, path)
	jv.value = res.Value()
	jv.exists = res.Exists()
}

func (jv *jsonValue) GetValue() any {
	if !jv.exists {
		return nil
	}
	return jv.value
}

func (jv *jsonValue) GetColumnValue(name string) (string, error) {
	return jv.row.GetColumnValue(name)
}

func (jv *jsonValue) GetIndex() int {
	return jv.row.Index
}

// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/Masterminds/sprig/v3"
	greenmasktoolkit "github.com/eminano/greenmask/pkg/toolkit"
)

// TemplateTransformer renders a go template with the row context. Templates
// can use .GetValue, .GetColumnValue "name" and .GetIndex.
type TemplateTransformer struct {
	template *template.Template
	columns  []string
}

const getColumnValueMethod = "GetColumnValue"

var (
	errTemplateMustBeProvided = errors.New("template: template parameter must be provided")
	templateParams            = []Parameter{
		{
			Name:          "template",
			SupportedType: "string",
			Required:      true,
		},
	}
)

func NewTemplateTransformer(params ParameterValues) (*TemplateTransformer, error) {
	templateStr, found, err := FindParameter[string](params, "template")
	if err != nil {
		return nil, fmt.Errorf("template: template must be a string: %w", err)
	}
	if !found {
		return nil, errTemplateMustBeProvided
	}

	tmpl, err := template.New("").
		Funcs(greenmasktoolkit.FuncMap()).
		Funcs(sprig.FuncMap()).
		Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("template: error parsing template: %w: %w", ErrInvalidParameters, err)
	}
	return &TemplateTransformer{
		template: tmpl,
		columns:  templateColumnReferences(tmpl),
	}, nil
}

func (t *TemplateTransformer) Transform(_ context.Context, value Value) (string, error) {
	var buf strings.Builder
	if err := t.template.Execute(&buf, value); err != nil {
		return "", fmt.Errorf("template: error executing template: %w", err)
	}
	return buf.String(), nil
}

func (t *TemplateTransformer) Type() TransformerType {
	return Template
}

// ReferencedColumns returns the columns read with .GetColumnValue and a
// string literal. Names computed at render time are only checked per row.
func (t *TemplateTransformer) ReferencedColumns() []string {
	return t.columns
}

func templateColumnReferences(tmpl *template.Template) []string {
	var columns []string
	var walk func(node parse.Node)
	walk = func(node parse.Node) {
		switch n := node.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, child := range n.Nodes {
				walk(child)
			}
		case *parse.ActionNode:
			walk(n.Pipe)
		case *parse.IfNode:
			walk(&n.BranchNode)
		case *parse.RangeNode:
			walk(&n.BranchNode)
		case *parse.WithNode:
			walk(&n.BranchNode)
		case *parse.BranchNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.TemplateNode:
			walk(n.Pipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}
			for _, cmd := range n.Cmds {
				walk(cmd)
			}
		case *parse.CommandNode:
			if len(n.Args) > 1 && isGetColumnValue(n.Args[0]) {
				if name, ok := n.Args[1].(*parse.StringNode); ok && !slices.Contains(columns, name.Text) {
					columns = append(columns, name.Text)
				}
			}
			for _, arg := range n.Args {
				walk(arg)
			}
		}
	}

	for _, tt := range tmpl.Templates() {
		if tt.Tree != nil {
			walk(tt.Tree.Root)
		}
	}
	return columns
}

func isGetColumnValue(node parse.Node) bool {
	var ident []string
	switch n := node.(type) {
	case *parse.FieldNode:
		ident = n.Ident
	case *parse.VariableNode:
		ident = n.Ident
	default:
		return false
	}
	return len(ident) > 0 && ident[len(ident)-1] == getColumnValueMethod
}

func TemplateTransformerDefinition() *Definition {
	return &Definition{
		Description: "Renders a template using the field and the other columns of the row",
		Parameters:  templateParams,
	}
}

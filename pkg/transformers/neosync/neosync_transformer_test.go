// SPDX-License-Identifier: Apache-2.0

package neosync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/pgshift/pkg/transformers"
)

func TestNeosyncTransformers_Seeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(transformers.ParameterValues) (transformers.Transformer, error)
		input string
	}{
		{
			name: "first name",
			build: func(p transformers.ParameterValues) (transformers.Transformer, error) {
				return NewFirstNameTransformer(p)
			},
			input: "alice",
		},
		{
			name: "last name",
			build: func(p transformers.ParameterValues) (transformers.Transformer, error) {
				return NewLastNameTransformer(p)
			},
			input: "liddell",
		},
		{
			name: "string",
			build: func(p transformers.ParameterValues) (transformers.Transformer, error) {
				return NewStringTransformer(p)
			},
			input: "some text",
		},
		{
			name: "email",
			build: func(p transformers.ParameterValues) (transformers.Transformer, error) {
				return NewEmailTransformer(p)
			},
			input: "alice@example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := transformers.ParameterValues{"seed": 12}
			first, err := tc.build(params)
			require.NoError(t, err)
			second, err := tc.build(params)
			require.NoError(t, err)

			got, err := first.Transform(context.Background(), transformers.Value{TransformValue: tc.input})
			require.NoError(t, err)
			require.NotEmpty(t, got)

			gotAgain, err := second.Transform(context.Background(), transformers.Value{TransformValue: tc.input})
			require.NoError(t, err)
			require.Equal(t, got, gotAgain)
		})
	}
}

func TestNewNeosyncTransformers_InvalidParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  transformers.ParameterValues
		wantErr error
	}{
		{
			name:    "invalid preserve_length",
			params:  transformers.ParameterValues{"preserve_length": 1},
			wantErr: transformers.ErrInvalidParameters,
		},
		{
			name:    "invalid max_length",
			params:  transformers.ParameterValues{"max_length": "1"},
			wantErr: transformers.ErrInvalidParameters,
		},
		{
			name:    "invalid seed",
			params:  transformers.ParameterValues{"seed": "1"},
			wantErr: transformers.ErrInvalidParameters,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFirstNameTransformer(tc.params)
			require.ErrorIs(t, err, tc.wantErr)
			_, err = NewLastNameTransformer(tc.params)
			require.ErrorIs(t, err, tc.wantErr)
			_, err = NewStringTransformer(tc.params)
			require.ErrorIs(t, err, tc.wantErr)
			_, err = NewEmailTransformer(tc.params)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewEmailTransformer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  transformers.ParameterValues
		wantErr error
	}{
		{
			name:   "ok - valid default parameters",
			params: transformers.ParameterValues{},
		},
		{
			name: "ok - valid custom parameters",
			params: transformers.ParameterValues{
				"email_type":           "fullname",
				"invalid_email_action": "generate",
				"excluded_domains":     []string{"example.com", "example.org"},
				"max_length":           30,
				"preserve_domain":      true,
				"seed":                 0,
			},
		},
		{
			name: "error - invalid excluded_domains, []any",
			params: transformers.ParameterValues{
				"excluded_domains": []any{"example.com", 3},
			},
			wantErr: errInvalidExcludedDomains,
		},
		{
			name: "error - invalid excluded_domains, int",
			params: transformers.ParameterValues{
				"excluded_domains": 3,
			},
			wantErr: errInvalidExcludedDomains,
		},
		{
			name: "error - invalid email_type",
			params: transformers.ParameterValues{
				"email_type": "invalid",
			},
			wantErr: errInvalidEmailType,
		},
		{
			name: "error - invalid invalid_email_action",
			params: transformers.ParameterValues{
				"invalid_email_action": "invalid",
			},
			wantErr: errInvalidInvalidEmailAction,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			transformer, err := NewEmailTransformer(tc.params)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}
			require.NotNil(t, transformer)
			require.Equal(t, transformers.NeosyncEmail, transformer.Type())
		})
	}
}

func TestEmailTransformer_PreserveDomain(t *testing.T) {
	t.Parallel()

	transformer, err := NewEmailTransformer(transformers.ParameterValues{
		"preserve_domain": true,
		"seed":            1,
	})
	require.NoError(t, err)

	got, err := transformer.Transform(context.Background(), transformers.Value{TransformValue: "alice@example.com"})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(got, "@example.com"), got)
}

func TestMapError(t *testing.T) {
	t.Parallel()

	require.NoError(t, mapError(transformers.NeosyncFirstName, nil))

	err := mapError(transformers.NeosyncFirstName, errors.New("unable to find candidates with range [1:1]"))
	require.ErrorIs(t, err, ErrSingleCharName)
	require.Contains(t, err.Error(), string(transformers.NeosyncFirstName))

	errTest := errors.New("oh noes")
	err = mapError(transformers.NeosyncEmail, errTest)
	require.ErrorIs(t, err, errTest)
	require.Equal(t, "neosync-email: oh noes", err.Error())
}

// SPDX-License-Identifier: Apache-2.0

package neosync

import (
	"fmt"
	"slices"

	neosynctransformers "github.com/nucleuscloud/neosync/worker/pkg/benthos/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type EmailTransformer struct {
	*transformer[string]
}

var (
	validEmailTypes = []string{
		neosynctransformers.GenerateEmailType_UuidV4.String(),
		neosynctransformers.GenerateEmailType_FullName.String(),
		neosynctransformers.GenerateEmailType_Any.String(),
	}
	validInvalidEmailActions = []string{
		neosynctransformers.InvalidEmailAction_Reject.String(),
		neosynctransformers.InvalidEmailAction_Passthrough.String(),
		neosynctransformers.InvalidEmailAction_Null.String(),
		neosynctransformers.InvalidEmailAction_Generate.String(),
	}

	emailParams = []transformers.Parameter{
		seedParam,
		preserveLengthParam,
		maxLengthParam,
		{
			Name:          "preserve_domain",
			SupportedType: "boolean",
			Default:       false,
		},
		{
			Name:          "excluded_domains",
			SupportedType: "array",
		},
		{
			Name:          "email_type",
			SupportedType: "string",
			Default:       "uuidv4",
			Values:        []any{"uuidv4", "fullname", "any"},
		},
		{
			Name:          "invalid_email_action",
			SupportedType: "string",
			Default:       "reject",
			Values:        []any{"reject", "passthrough", "null", "generate"},
		},
	}
)

func NewEmailTransformer(params transformers.ParameterValues) (*EmailTransformer, error) {
	preserveLength, err := findParameter[bool](params, "preserve_length")
	if err != nil {
		return nil, fmt.Errorf("neosync-email: preserve_length must be a boolean: %w", err)
	}

	preserveDomain, err := findParameter[bool](params, "preserve_domain")
	if err != nil {
		return nil, fmt.Errorf("neosync-email: preserve_domain must be a boolean: %w", err)
	}

	excludedDomains, err := findExcludedDomains(params)
	if err != nil {
		return nil, err
	}

	maxLength, err := findParameter[int](params, "max_length")
	if err != nil {
		return nil, fmt.Errorf("neosync-email: max_length must be an integer: %w", err)
	}

	seed, err := findParameter[int](params, "seed")
	if err != nil {
		return nil, fmt.Errorf("neosync-email: seed must be an integer: %w", err)
	}

	emailType, err := findParameter[string](params, "email_type")
	if err != nil {
		return nil, fmt.Errorf("neosync-email: email_type must be a string: %w", err)
	}
	if emailType != nil && !slices.Contains(validEmailTypes, *emailType) {
		return nil, errInvalidEmailType
	}

	invalidEmailAction, err := findParameter[string](params, "invalid_email_action")
	if err != nil {
		return nil, fmt.Errorf("neosync-email: invalid_email_action must be a string: %w", err)
	}
	if invalidEmailAction != nil && !slices.Contains(validInvalidEmailActions, *invalidEmailAction) {
		return nil, errInvalidInvalidEmailAction
	}

	opts, err := neosynctransformers.NewTransformEmailOpts(preserveLength, preserveDomain, &excludedDomains, toInt64Ptr(maxLength), toInt64Ptr(seed), emailType, invalidEmailAction)
	if err != nil {
		return nil, fmt.Errorf("neosync-email: %w: %w", transformers.ErrInvalidParameters, err)
	}

	return &EmailTransformer{
		transformer: New[string](neosynctransformers.NewTransformEmail(), opts, transformers.NeosyncEmail),
	}, nil
}

func EmailTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random email address, optionally preserving the domain",
		Parameters:  emailParams,
	}
}

// findExcludedDomains returns the excluded domains as the []any neosync
// expects, or nil when not configured.
func findExcludedDomains(params transformers.ParameterValues) (any, error) {
	domains, found, err := transformers.FindParameterArray[string](params, "excluded_domains")
	if err != nil {
		return nil, errInvalidExcludedDomains
	}
	if !found {
		return nil, nil
	}
	res := make([]any, 0, len(domains))
	for _, d := range domains {
		res = append(res, d)
	}
	return res, nil
}

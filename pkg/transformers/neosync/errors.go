// SPDX-License-Identifier: Apache-2.0

package neosync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xataio/pgshift/pkg/transformers"
)

// ErrSingleCharName is returned when a value of length one must be replaced
// with a name of the same length, and the name dictionary has none.
var ErrSingleCharName = errors.New("no single character name candidate")

var (
	errInvalidEmailType          = errors.New("neosync-email: email_type must be one of 'uuidv4', 'fullname' or 'any'")
	errInvalidInvalidEmailAction = errors.New("neosync-email: invalid_email_action must be one of 'reject', 'passthrough', 'null' or 'generate'")
	errInvalidExcludedDomains    = errors.New("neosync-email: excluded_domains must be an array of strings")
)

// mapError prefixes the error with the transformer that produced it, so a
// failing row can be traced back to the column configuration.
func mapError(transformerType transformers.TransformerType, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "unable to find candidates with range") && strings.HasSuffix(msg, ":1]") {
		return fmt.Errorf("%s: %w: %s", transformerType, ErrSingleCharName, msg)
	}
	return fmt.Errorf("%s: %w", transformerType, err)
}

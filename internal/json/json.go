// SPDX-License-Identifier: Apache-2.0

package json

import (
	"github.com/bytedance/sonic"
)

// api keeps the encoding/json behaviour for map key ordering and HTML
// escaping, so command output is stable across runs.
var api = sonic.ConfigStd

func Unmarshal(b []byte, v any) error {
	return api.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v any) ([]byte, error) {
	return api.MarshalIndent(v, "", "\t")
}

// SPDX-License-Identifier: Apache-2.0

package config

import (
	"sort"
	"strings"
)

// ReplaceEnvVars replaces the $NAME and ${NAME} references in text with the
// values in env. Longer names are replaced first, so $DB_URL_2 is not
// replaced with the value of $DB_URL followed by "_2". References to
// variables missing from env are left untouched.
func ReplaceEnvVars(text string, env map[string]string) string {
	names := make([]string, 0, len(env))
	for name := range env {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	replacements := make([]string, 0, len(names)*4)
	for _, name := range names {
		replacements = append(replacements, "${"+name+"}", env[name])
	}
	for _, name := range names {
		replacements = append(replacements, "$"+name, env[name])
	}
	return strings.NewReplacer(replacements...).Replace(text)
}

// EnvironMap converts a list of KEY=value entries, as returned by
// os.Environ, into a map.
func EnvironMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		env[name] = value
	}
	return env
}

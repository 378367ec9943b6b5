package domain

import "strings"

// Row is one record of a tabular source, keyed by header name.
type Row map[string]string

// Field returns the trimmed value of the first alias with a non-blank value.
// Sources materialize every header, so a blank column falls through to the
// next alias.
func (r Row) Field(aliases ...string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(r[alias]); v != "" {
			return v
		}
	}
	return ""
}


package action

import (
	"net/url"
	"strings"
)

// Form is the flat string-keyed map a form post is parsed into.
type Form map[string]string

// FormFromValues keeps the first value of every key.
func FormFromValues(values url.Values) Form {
	f := make(Form, len(values))
	for k, v := range values {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}

// Get returns the trimmed value of key.
func (f Form) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// Bool treats 1, true, on and yes as set.
func (f Form) Bool(key string) bool {
	switch strings.ToLower(f.Get(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Indexed collects keys of the form name[index] into index -> value.
func (f Form) Indexed(name string) map[string]string {
	prefix := name + "["
	out := make(map[string]string)
	for k, v := range f {
		if !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, "]") {
			continue
		}
		index := k[len(prefix) : len(k)-1]
		if index == "" {
			continue
		}
		out[index] = strings.TrimSpace(v)
	}
	return out
}

package services

import (
	"net/url"
	"strings"
)

// Form is an ordered application/x-www-form-urlencoded body.
//
// Unlike [url.Values], fields are encoded in insertion order and repeated keys stay adjacent to where they were added.
type Form struct {
	keys   []string
	values []string
}

// NewForm creates an empty [Form]
func NewForm() *Form {
	return &Form{}
}

// Add appends a field
func (f *Form) Add(key, value string) {
	f.keys = append(f.keys, key)
	f.values = append(f.values, value)
}

// Get returns the first value for key, or "" when absent
func (f *Form) Get(key string) string {
	for i, k := range f.keys {
		if k == key {
			return f.values[i]
		}
	}
	return ""
}

// All returns every value stored under key, in order
func (f *Form) All(key string) []string {
	var out []string
	for i, k := range f.keys {
		if k == key {
			out = append(out, f.values[i])
		}
	}
	return out
}

func (f *Form) Len() int { return len(f.keys) }

// Encode renders the form as key=value pairs joined by "&"
func (f *Form) Encode() string {
	var b strings.Builder
	for i, k := range f.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.values[i]))
	}
	return b.String()
}

package tools

import (
	"encoding/json"
	"strconv"
)

// Options is the loosely-typed options bag sent alongside uploads.
// Values may arrive as strings even for numeric fields, so the getters
// coerce both ways.
type Options map[string]any

// ParseOptions decodes the raw options form field. Malformed JSON is
// swallowed and replaced with an empty bag, never surfaced as an error.
func ParseOptions(raw string) Options {
	if raw == "" {
		return Options{}
	}
	var o Options
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return Options{}
	}
	if o == nil {
		return Options{}
	}
	return o
}

func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func (o Options) Bool(key string, def bool) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Package json wraps json-iterator with the settings used for reports and diagnostics.
package json

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/json-iterator/go/extra"
)

var jsonAdapter jsoniter.API

func init() {
	extra.RegisterTimeAsInt64Codec(time.Millisecond)

	jsonAdapter = jsoniter.Config{
		SortMapKeys:             true,
		EscapeHTML:              false,
		MarshalFloatWith6Digits: true,
		UseNumber:               true,
	}.Froze()
}

// Marshal marshal v into valid JSON
func Marshal(v interface{}) ([]byte, error) {
	return jsonAdapter.Marshal(v)
}

// MarshalIndent is like Marshal but applies Indent to format the output
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return jsonAdapter.MarshalIndent(v, prefix, indent)
}

// Unmarshal unmarshal a JSON data to v
func Unmarshal(data []byte, v interface{}) error {
	return jsonAdapter.Unmarshal(data, v)
}

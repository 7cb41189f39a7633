// Package json implements encoding and decoding of JSON as defined in RFC 7159.
package json

import "encoding/json"

// RawMessage is a raw encoded JSON value, decoding is delayed
type RawMessage = json.RawMessage

// MarshalToString marshal v to string
func MarshalToString(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

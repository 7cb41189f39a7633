package json

import (
	"encoding/json"

	"github.com/Laisky/errors/v2"
	"github.com/tailscale/hujson"
)

// ErrDuplicateKey an object holds the same name twice
var ErrDuplicateKey = errors.New("duplicate object key")

// Unmarshal unmarshal json, support comment and trailing comma.
//
// unlike encoding/json, an object that repeats a name is rejected
// with ErrDuplicateKey instead of keeping the last value.
func Unmarshal(data []byte, v interface{}) (err error) {
	if len(data) == 0 {
		return nil
	}

	data, err = standardizeJSON(data)
	if err != nil {
		return errors.Wrap(err, "standardize json")
	}

	return json.Unmarshal(data, v)
}

// UnmarshalFromString unmarshal json from string, support comment and trailing comma
func UnmarshalFromString(str string, v interface{}) (err error) {
	return Unmarshal([]byte(str), v)
}

func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	if err = checkDuplicateKeys(ast); err != nil {
		return b, err
	}

	ast.Standardize()
	return ast.Pack(), nil
}

// checkDuplicateKeys walks every object in v, nested ones included
func checkDuplicateKeys(v hujson.Value) error {
	switch node := v.Value.(type) {
	case *hujson.Object:
		seen := make(map[string]struct{}, len(node.Members))
		for _, m := range node.Members {
			name := m.Name.Value.(hujson.Literal).String()
			if _, ok := seen[name]; ok {
				return errors.Wrapf(ErrDuplicateKey, "%q", name)
			}
			seen[name] = struct{}{}

			if err := checkDuplicateKeys(m.Value); err != nil {
				return err
			}
		}
	case *hujson.Array:
		for _, elem := range node.Elements {
			if err := checkDuplicateKeys(elem); err != nil {
				return err
			}
		}
	}

	return nil
}

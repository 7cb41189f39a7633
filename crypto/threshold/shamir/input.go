package shamir

import (
	"math/big"
	"sort"
	"strconv"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/shamir-recovery/json"
)

const (
	inputKeysField = "keys"

	minBase = 2
	maxBase = 36
)

// Input decoded share set
//
//	{
//	  "keys": {"n": 4, "k": 3},
//	  "1": {"base": "10", "value": "9"},
//	  "2": {"base": "16", "value": "f"},
//	  ...
//	}
type Input struct {
	// N declared number of shares
	N int
	// K reconstruction threshold, the polynomial has degree K-1
	K int
	// Shares ordered by ascending index
	Shares []Share
}

// EncodedValue share value as digits in a numeric base
type EncodedValue struct {
	Base  string `json:"base"`
	Value string `json:"value"`
}

// Decode parse value in base, base should in [2, 36]
func (e EncodedValue) Decode() (*big.Int, error) {
	base, err := strconv.Atoi(e.Base)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "invalid base %q", e.Base)
	}
	if base < minBase || base > maxBase {
		return nil, errors.Wrapf(ErrMalformedInput,
			"base should in [%d, %d], got %d", minBase, maxBase, base)
	}

	v, ok := new(big.Int).SetString(e.Value, base)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedInput,
			"invalid value %q in base %d", e.Value, base)
	}

	return v, nil
}

type inputKeys struct {
	N *int `json:"n"`
	K *int `json:"k"`
}

// ParseInput decode share set from json,
// comments and trailing commas are allowed.
//
// every share's key is its index, and must be a positive decimal integer.
// all errors wrap ErrMalformedInput.
func ParseInput(data []byte) (*Input, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "decode json: %v", err)
	}

	rawKeys, ok := fields[inputKeysField]
	if !ok {
		return nil, errors.Wrapf(ErrMalformedInput, "missing %q", inputKeysField)
	}

	var keys inputKeys
	if err := json.Unmarshal(rawKeys, &keys); err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "decode %q: %v", inputKeysField, err)
	}
	switch {
	case keys.N == nil:
		return nil, errors.Wrapf(ErrMalformedInput, "missing %q in %q", "n", inputKeysField)
	case keys.K == nil:
		return nil, errors.Wrapf(ErrMalformedInput, "missing %q in %q", "k", inputKeysField)
	case *keys.K < 1:
		return nil, errors.Wrapf(ErrMalformedInput, "k should be positive, got %d", *keys.K)
	case *keys.N < 1:
		return nil, errors.Wrapf(ErrMalformedInput, "n should be positive, got %d", *keys.N)
	}

	type indexedKey struct {
		key   string
		index int64
	}
	keysOfShares := make([]indexedKey, 0, len(fields))
	for key := range fields {
		if key == inputKeysField {
			continue
		}

		index, err := parseIndex(key)
		if err != nil {
			return nil, err
		}

		keysOfShares = append(keysOfShares, indexedKey{key: key, index: index})
	}

	// keys like "1" and "01" share an index, order them by key to stay deterministic
	sort.Slice(keysOfShares, func(i, j int) bool {
		if keysOfShares[i].index != keysOfShares[j].index {
			return keysOfShares[i].index < keysOfShares[j].index
		}

		return keysOfShares[i].key < keysOfShares[j].key
	})

	in := &Input{
		N:      *keys.N,
		K:      *keys.K,
		Shares: make([]Share, 0, len(keysOfShares)),
	}
	for _, ik := range keysOfShares {
		share, err := decodeShare(ik.key, ik.index, fields[ik.key])
		if err != nil {
			return nil, err
		}

		in.Shares = append(in.Shares, share)
	}

	return in, nil
}

func parseIndex(key string) (int64, error) {
	index, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedInput, "share key %q is not an integer", key)
	}
	if index < 1 {
		return 0, errors.Wrapf(ErrMalformedInput, "share index should be positive, got %d", index)
	}

	return index, nil
}

func decodeShare(key string, index int64, raw json.RawMessage) (Share, error) {
	var enc EncodedValue
	if err := json.Unmarshal(raw, &enc); err != nil {
		return Share{}, errors.Wrapf(ErrMalformedInput, "decode share %q: %v", key, err)
	}

	value, err := enc.Decode()
	if err != nil {
		return Share{}, errors.Wrapf(err, "share %q", key)
	}

	return Share{Index: index, Value: value}, nil
}

// DistinctIndices count distinct indices in shares
func (in *Input) DistinctIndices() int {
	seen := make(map[int64]struct{}, len(in.Shares))
	for _, s := range in.Shares {
		seen[s.Index] = struct{}{}
	}

	return len(seen)
}

package json

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Base  string `json:"base"`
		Value string `json:"value"`
	}

	testCases := []struct {
		name     string
		input    []byte
		expected testStruct
		wantErr  bool
	}{
		{
			name:     "0",
			input:    []byte(`{"base": "16", "value": "ff"}`),
			expected: testStruct{Base: "16", Value: "ff"},
		},
		{
			name:     "1",
			input:    []byte{},
			expected: testStruct{},
		},
		{
			name:    "2",
			input:   []byte(`{"base": 16}`),
			wantErr: true,
		},
		{
			name:     "3",
			input:    []byte(`{"base": "2", "value": "111", "extra": "extra"}`),
			expected: testStruct{Base: "2", Value: "111"},
		},
		{
			name:    "4",
			input:   []byte(`{"base": "10",`),
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var actual testStruct
			err := Unmarshal(tc.input, &actual)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoErrorf(t, err, "[%s]", tc.name)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestUnmarshalWithComment(t *testing.T) {
	t.Parallel()

	raw := `{
		// threshold
		"keys": {"n": 4, "k": 3},
		/* share 1 */
		"1": {"base": "10", "value": "9"},
	}`

	var v map[string]RawMessage
	require.NoError(t, UnmarshalFromString(raw, &v))
	require.Len(t, v, 2)
	require.JSONEq(t, `{"n": 4, "k": 3}`, string(v["keys"]))
	require.JSONEq(t, `{"base": "10", "value": "9"}`, string(v["1"]))
}

func TestUnmarshalDuplicateKey(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`{"1": {"value": "9"}, "1": {"value": "5"}}`,
		`{"1": {"value": "9"}, /* same name, escaped */ "\u0031": {"value": "5"}}`,
		`{"keys": {"n": 3, "k": 2, "k": 3}}`,
		`[{"base": "10"}, {"base": "10", "base": "16"}]`,
	} {
		var v interface{}
		err := UnmarshalFromString(raw, &v)
		require.ErrorIs(t, err, ErrDuplicateKey, raw)
	}

	// same name in different objects is fine
	var v map[string]map[string]string
	require.NoError(t, UnmarshalFromString(`{"1": {"value": "9"}, "2": {"value": "9"}}`, &v))
	require.Len(t, v, 2)
}

func TestMarshalToString(t *testing.T) {
	t.Parallel()

	got, err := MarshalToString(map[string]string{"secret": "5"})
	require.NoError(t, err)
	require.Equal(t, `{"secret":"5"}`, got)
}

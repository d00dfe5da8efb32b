package fixture

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeArgs(t *testing.T, src string) []Arg {
	t.Helper()
	var args []Arg
	require.NoError(t, yaml.Unmarshal([]byte(src), &args))
	return args
}

func TestArg_ScalarTypes(t *testing.T) {
	args := decodeArgs(t, `[42, -1, 3.5, "s", true, 18446744073709551615]`)
	require.Len(t, args, 6)

	assert.Equal(t, Arg{Type: "int", Value: 42}, args[0])
	assert.Equal(t, Arg{Type: "int", Value: -1}, args[1])
	assert.Equal(t, Arg{Type: "float64", Value: 3.5}, args[2])
	assert.Equal(t, Arg{Type: "string", Value: "s"}, args[3])
	assert.Equal(t, Arg{Type: "bool", Value: true}, args[4])
	assert.Equal(t, Arg{Type: "uint64", Value: uint64(math.MaxUint64)}, args[5])
}

func TestArg_TypedMappings(t *testing.T) {
	tests := []struct {
		src  string
		want Arg
	}{
		{`{int8: -128}`, Arg{Type: "int8", Value: int8(-128)}},
		{`{int16: 300}`, Arg{Type: "int16", Value: int16(300)}},
		{`{int32: 7}`, Arg{Type: "int32", Value: int32(7)}},
		{`{int64: -9}`, Arg{Type: "int64", Value: int64(-9)}},
		{`{uint: 1}`, Arg{Type: "uint", Value: uint(1)}},
		{`{uint8: 255}`, Arg{Type: "uint8", Value: uint8(255)}},
		{`{byte: 65}`, Arg{Type: "byte", Value: uint8(65)}},
		{`{uint16: 65535}`, Arg{Type: "uint16", Value: uint16(65535)}},
		{`{uint32: 4294967295}`, Arg{Type: "uint32", Value: uint32(4294967295)}},
		{`{uint64: 18446744073709551615}`, Arg{Type: "uint64", Value: uint64(math.MaxUint64)}},
		{`{float32: 0.1}`, Arg{Type: "float32", Value: float32(0.1)}},
		{`{float64: 2}`, Arg{Type: "float64", Value: 2.0}},
		{`{string: "x"}`, Arg{Type: "string", Value: "x"}},
		{`{bytes: "hi"}`, Arg{Type: "bytes", Value: []byte("hi")}},
		{`{bool: false}`, Arg{Type: "bool", Value: false}},
		{`{rune: "A"}`, Arg{Type: "rune", Value: 'A'}},
		{`{rune: 19990}`, Arg{Type: "rune", Value: rune(19990)}},
		{`{nil: ~}`, Arg{Type: "nil"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var a Arg
			require.NoError(t, yaml.Unmarshal([]byte(tt.src), &a))
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestArg_Null(t *testing.T) {
	table, err := ParseYAML([]byte(`
cases:
  - {name: nil_value, expect: "<nil>", format: "%v", args: [null]}
`))
	require.NoError(t, err)
	require.Len(t, table.Cases[0].Args, 1)
	assert.Equal(t, Arg{Type: "nil"}, table.Cases[0].Args[0])
	assert.Equal(t, []any{nil}, table.Cases[0].Values())
}

func TestArgs_NullKeepsPosition(t *testing.T) {
	table, err := ParseYAML([]byte(`
cases:
  - {name: mixed, expect: "1 <nil> 2", format: "%v %v %v", args: [1, null, 2]}
  - {name: tilde, expect: "<nil> x", format: "%v %s", args: [~, x]}
  - {name: typed, expect: "<nil>", format: "%v", args: [{nil: ~}]}
`))
	require.NoError(t, err)

	assert.Equal(t, Args{{Type: "int", Value: 1}, {Type: "nil"}, {Type: "int", Value: 2}}, table.Cases[0].Args)
	assert.Equal(t, []any{1, nil, 2}, table.Cases[0].Values())
	assert.Equal(t, Args{{Type: "nil"}, {Type: "string", Value: "x"}}, table.Cases[1].Args)
	assert.Equal(t, Args{{Type: "nil"}}, table.Cases[2].Args)
}

func TestArgs_NotASequence(t *testing.T) {
	_, err := ParseYAML([]byte(`
cases:
  - {name: bad, expect: "1", format: "%d", args: 1}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "args must be a sequence")
}

func TestDefault_NilArgument(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	filtered, err := table.Filter("nil_value")
	require.NoError(t, err)
	require.Len(t, filtered.Cases, 1)
	assert.Equal(t, Args{{Type: "nil"}}, filtered.Cases[0].Args)
}

func TestArg_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"int8 overflow", `{int8: 128}`, "overflows int8"},
		{"uint8 overflow", `{uint8: 256}`, "overflows uint8"},
		{"negative unsigned", `{uint: -1}`, "is negative"},
		{"int64 overflow", `{int64: 18446744073709551615}`, "overflows int64"},
		{"rune too long", `{rune: "ab"}`, "exactly one character"},
		{"rune overflow", `{rune: 4294967296}`, "overflows rune"},
		{"string from int", `{string: 1}`, "want a string"},
		{"bool from string", `{bool: "yes"}`, "want a bool"},
		{"float from string", `{float64: "x"}`, "want a number"},
		{"nil with value", `{nil: 1}`, "want null"},
		{"unknown type", `{complex128: 1}`, "unknown argument type"},
		{"two keys", `{int: 1, uint: 2}`, "exactly one key"},
		{"sequence", `[1, 2]`, "scalar or a {type: value} mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Arg
			err := yaml.Unmarshal([]byte(tt.src), &a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestArg_ReprAndString(t *testing.T) {
	assert.Equal(t, `"a\"b"`, Arg{Type: "string", Value: `a"b`}.Repr())
	assert.Equal(t, `"hi"`, Arg{Type: "bytes", Value: []byte("hi")}.Repr())
	assert.Equal(t, "0.1", Arg{Type: "float32", Value: float32(0.1)}.Repr())
	assert.Equal(t, "1e+21", Arg{Type: "float64", Value: 1e21}.Repr())
	assert.Equal(t, "nil", Arg{Type: "nil"}.Repr())
	assert.Equal(t, "uint8(255)", Arg{Type: "uint8", Value: uint8(255)}.String())
}

func TestArg_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Arg{Type: "float32", Value: float32(0.1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"float32","value":"0.1"}`, string(data))
}

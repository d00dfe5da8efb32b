package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Name: "sample",
		Cases: []Case{
			{Name: "int_width", Expect: "   42", Format: "%5d", Args: []Arg{{Type: "int", Value: 42}}},
			{Name: "int_left", Expect: "42   |", Format: "%-5d|", Args: []Arg{{Type: "int", Value: 42}}},
			{Name: "string", Expect: "hello", Format: "%s", Args: []Arg{{Type: "string", Value: "hello"}}},
		},
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  string
	}{
		{"empty", Table{}, "must be non-empty"},
		{"missing name", Table{Cases: []Case{{Format: "%d"}}}, "cases[0]: name is required"},
		{"missing format", Table{Cases: []Case{{Name: "a"}}}, "cases[0] a: format is required"},
		{
			"duplicate name",
			Table{Cases: []Case{{Name: "a", Format: "x"}, {Name: "b", Format: "y"}, {Name: "a", Format: "z"}}},
			`cases[2]: duplicate name "a" (first at cases[0])`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, sampleTable().Validate())
}

func TestTable_Validate_EmptyExpectAllowed(t *testing.T) {
	table := Table{Cases: []Case{{Name: "empty", Expect: "", Format: "%s", Args: []Arg{{Type: "string", Value: ""}}}}}
	assert.NoError(t, table.Validate())
}

func TestTable_Filter(t *testing.T) {
	table := sampleTable()

	all, err := table.Filter("")
	require.NoError(t, err)
	assert.Same(t, table, all)

	ints, err := table.Filter("int_*")
	require.NoError(t, err)
	require.Len(t, ints.Cases, 2)
	assert.Equal(t, "int_width", ints.Cases[0].Name)
	assert.Equal(t, "int_left", ints.Cases[1].Name)
	assert.Equal(t, "sample", ints.Name)

	none, err := table.Filter("float*")
	require.NoError(t, err)
	assert.Empty(t, none.Cases)

	_, err = table.Filter("[")
	assert.Error(t, err)
}

func TestTable_Hash(t *testing.T) {
	h1, err := sampleTable().Hash()
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := sampleTable().Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "hash must be deterministic")

	changed := sampleTable()
	changed.Cases[0].Expect = "  42"
	h3, err := changed.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	retyped := sampleTable()
	retyped.Cases[0].Args[0] = Arg{Type: "int64", Value: int64(42)}
	h4, err := retyped.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4, "argument type is part of the hash")
}

func TestTable_Hash_NormalizationDistinct(t *testing.T) {
	composed := &Table{Cases: []Case{{Name: "e", Expect: "\u00e9", Format: "%s"}}}
	decomposed := &Table{Cases: []Case{{Name: "e", Expect: "e\u0301", Format: "%s"}}}

	h1, err := composed.Hash()
	require.NoError(t, err)
	h2, err := decomposed.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestTable_Hash_FloatArgs(t *testing.T) {
	table := &Table{Cases: []Case{{Name: "f", Expect: "0.1", Format: "%v", Args: []Arg{{Type: "float32", Value: float32(0.1)}}}}}
	_, err := table.Hash()
	assert.NoError(t, err, "float arguments are hashed through their repr")
}

func TestCase_Values(t *testing.T) {
	c := Case{Args: []Arg{{Type: "int", Value: 1}, {Type: "string", Value: "two"}, {Type: "nil"}}}
	assert.Equal(t, []any{1, "two", nil}, c.Values())
	assert.Empty(t, Case{}.Values())
}

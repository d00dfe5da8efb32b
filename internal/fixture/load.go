package fixture

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

//go:embed data/printf.yaml
var defaultYAML []byte

// DefaultName is the name reported for the built-in table.
const DefaultName = "builtin:printf"

// LoadError reports a fixture that could not be read, parsed or validated.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load fixture %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Default returns the built-in case table.
func Default() (*Table, error) {
	t, err := ParseYAML(defaultYAML)
	if err != nil {
		return nil, &LoadError{Path: DefaultName, Err: err}
	}
	return t, nil
}

// Load reads a fixture file. The format is chosen by extension:
// .yaml and .yml are YAML, .cue is CUE.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var t *Table
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		t, err = ParseYAML(data)
	case ".cue":
		t, err = ParseCUE(data, path)
	default:
		err = fmt.Errorf("unsupported fixture extension %q (want .yaml, .yml or .cue)", ext)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// ParseYAML decodes and validates a YAML fixture. Unknown fields are
// rejected so that typos like "expected:" fail loudly.
func ParseYAML(data []byte) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fixture is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &t, nil
}

// ParseCUE compiles a CUE fixture, unifies it with the #Fixture schema and
// decodes the result. filename is used in error positions only.
func ParseCUE(data []byte, filename string) (*Table, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %v", cueerrors.Details(err, nil))
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compiling CUE: %v", cueerrors.Details(err, nil))
	}

	unified := schema.LookupPath(cue.ParsePath("#Fixture")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("schema validation: %v", cueerrors.Details(err, nil))
	}

	var t Table
	if err := lookupString(unified, "name", &t.Name); err != nil {
		return nil, err
	}
	if err := lookupString(unified, "description", &t.Description); err != nil {
		return nil, err
	}

	iter, err := unified.LookupPath(cue.ParsePath("cases")).List()
	if err != nil {
		return nil, fmt.Errorf("cases: %w", err)
	}
	for i := 0; iter.Next(); i++ {
		c, err := decodeCUECase(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		t.Cases = append(t.Cases, c)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &t, nil
}

func lookupString(v cue.Value, field string, dst *string) error {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil
	}
	s, err := f.String()
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = s
	return nil
}

func decodeCUECase(v cue.Value) (Case, error) {
	var c Case
	if err := lookupString(v, "name", &c.Name); err != nil {
		return c, err
	}
	if err := lookupString(v, "expect", &c.Expect); err != nil {
		return c, err
	}
	if err := lookupString(v, "format", &c.Format); err != nil {
		return c, err
	}

	args := v.LookupPath(cue.ParsePath("args"))
	if !args.Exists() {
		return c, nil
	}
	iter, err := args.List()
	if err != nil {
		return c, fmt.Errorf("args: %w", err)
	}
	for i := 0; iter.Next(); i++ {
		a, err := decodeCUEArg(iter.Value())
		if err != nil {
			return c, fmt.Errorf("%s: args[%d]: %w", c.Name, i, err)
		}
		c.Args = append(c.Args, a)
	}
	return c, nil
}

func decodeCUEArg(v cue.Value) (Arg, error) {
	if v.Kind() != cue.StructKind {
		raw, err := cueScalar(v)
		if err != nil {
			return Arg{}, err
		}
		return scalarArg(raw)
	}

	iter, err := v.Fields()
	if err != nil {
		return Arg{}, err
	}
	var typed []Arg
	for iter.Next() {
		raw, err := cueScalar(iter.Value())
		if err != nil {
			return Arg{}, err
		}
		a, err := typedArg(iter.Label(), raw)
		if err != nil {
			return Arg{}, err
		}
		typed = append(typed, a)
	}
	if len(typed) != 1 {
		return Arg{}, fmt.Errorf("typed argument must have exactly one key, got %d", len(typed))
	}
	return typed[0], nil
}

// cueScalar converts a concrete CUE scalar to the Go value the YAML
// decoder would have produced for the same literal.
func cueScalar(v cue.Value) (any, error) {
	switch k := v.Kind(); k {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		if n, err := v.Int64(); err == nil {
			if strconv.IntSize == 64 || fitsInt(n, strconv.IntSize) {
				return int(n), nil
			}
			return n, nil
		}
		return v.Uint64()
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	default:
		return nil, fmt.Errorf("unsupported argument kind %s", k)
	}
}

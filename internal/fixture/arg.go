package fixture

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Arg is one typed argument of a case.
type Arg struct {
	// Type is the Go type name the value was converted to ("int", "uint8",
	// "rune", "bytes", ...).
	Type string

	// Value is the converted Go value passed to the output function.
	Value any
}

// ArgTypes lists the type names accepted in typed argument mappings.
var ArgTypes = []string{
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64",
	"float32", "float64",
	"string", "bool", "rune", "byte", "bytes", "nil",
}

// Args is the argument list of a case.
type Args []Arg

// UnmarshalYAML decodes every element of a sequence through
// Arg.UnmarshalYAML, so a null element becomes a nil argument in place.
// Decoding into a plain slice drops null elements.
func (as *Args) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: args must be a sequence", node.Line)
	}
	out := make(Args, len(node.Content))
	for i, n := range node.Content {
		if n.Kind == yaml.AliasNode {
			n = n.Alias
		}
		if err := out[i].UnmarshalYAML(n); err != nil {
			return err
		}
	}
	*as = out
	return nil
}

// UnmarshalYAML accepts a plain scalar or a single-key {type: value} mapping.
func (a *Arg) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var raw any
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		arg, err := scalarArg(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = arg
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: typed argument must have exactly one key", node.Line)
		}
		var raw any
		if err := node.Content[1].Decode(&raw); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		arg, err := typedArg(node.Content[0].Value, raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = arg
	default:
		return fmt.Errorf("line %d: argument must be a scalar or a {type: value} mapping", node.Line)
	}
	return nil
}

// MarshalJSON renders the argument as {"type": ..., "value": ...} with the
// value in its Repr form, so floats and byte slices survive unchanged.
func (a Arg) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":  a.Type,
		"value": a.Repr(),
	})
}

// Repr returns a stable textual form of the value. Strings and byte slices
// are quoted, floats use the shortest representation for their bit size.
func (a Arg) Repr() string {
	switch v := a.Value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case []byte:
		return strconv.Quote(string(v))
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// String implements fmt.Stringer as type(repr).
func (a Arg) String() string {
	return a.Type + "(" + a.Repr() + ")"
}

// scalarArg infers the argument type from a decoded scalar.
func scalarArg(raw any) (Arg, error) {
	switch v := raw.(type) {
	case nil:
		return Arg{Type: "nil"}, nil
	case int:
		return Arg{Type: "int", Value: v}, nil
	case int64:
		return Arg{Type: "int64", Value: v}, nil
	case uint64:
		return Arg{Type: "uint64", Value: v}, nil
	case float64:
		return Arg{Type: "float64", Value: v}, nil
	case string:
		return Arg{Type: "string", Value: v}, nil
	case bool:
		return Arg{Type: "bool", Value: v}, nil
	default:
		return Arg{}, fmt.Errorf("unsupported argument value %v (%T)", raw, raw)
	}
}

// typedArg converts raw to the Go type named by typ.
func typedArg(typ string, raw any) (Arg, error) {
	v, err := convert(typ, raw)
	if err != nil {
		return Arg{}, fmt.Errorf("%s argument: %w", typ, err)
	}
	return Arg{Type: typ, Value: v}, nil
}

var intBits = map[string]int{
	"int": strconv.IntSize, "int8": 8, "int16": 16, "int32": 32, "int64": 64,
}

var uintBits = map[string]int{
	"uint": strconv.IntSize, "uint8": 8, "byte": 8, "uint16": 16, "uint32": 32, "uint64": 64,
}

func convert(typ string, raw any) (any, error) {
	if bits, ok := intBits[typ]; ok {
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if !fitsInt(n, bits) {
			return nil, fmt.Errorf("%d overflows %s", n, typ)
		}
		switch typ {
		case "int":
			return int(n), nil
		case "int8":
			return int8(n), nil
		case "int16":
			return int16(n), nil
		case "int32":
			return int32(n), nil
		default:
			return n, nil
		}
	}
	if bits, ok := uintBits[typ]; ok {
		n, err := toUint64(raw)
		if err != nil {
			return nil, err
		}
		if !fitsUint(n, bits) {
			return nil, fmt.Errorf("%d overflows %s", n, typ)
		}
		switch typ {
		case "uint":
			return uint(n), nil
		case "uint8", "byte":
			return uint8(n), nil
		case "uint16":
			return uint16(n), nil
		case "uint32":
			return uint32(n), nil
		default:
			return n, nil
		}
	}

	switch typ {
	case "float32":
		f, err := toFloat64(raw)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case "float64":
		return toFloat64(raw)
	case "string":
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", raw)
		}
		return s, nil
	case "bytes":
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", raw)
		}
		return []byte(s), nil
	case "bool":
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("want a bool, got %T", raw)
		}
		return b, nil
	case "rune":
		if s, ok := raw.(string); ok {
			if utf8.RuneCountInString(s) != 1 {
				return nil, fmt.Errorf("want exactly one character, got %q", s)
			}
			r, _ := utf8.DecodeRuneInString(s)
			return r, nil
		}
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if !fitsInt(n, 32) {
			return nil, fmt.Errorf("%d overflows rune", n)
		}
		return rune(n), nil
	case "nil":
		if raw != nil {
			return nil, fmt.Errorf("want null, got %v", raw)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unknown argument type %q", typ)
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > 1<<63-1 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("want an integer, got %T", raw)
	}
}

func toUint64(raw any) (uint64, error) {
	switch v := raw.(type) {
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%d is negative", v)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%d is negative", v)
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	default:
		return 0, fmt.Errorf("want an unsigned integer, got %T", raw)
	}
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("want a number, got %T", raw)
	}
}

func fitsInt(n int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	lo := int64(-1) << (bits - 1)
	return n >= lo && n <= -lo-1
}

func fitsUint(n uint64, bits int) bool {
	return bits >= 64 || n < uint64(1)<<bits
}

// Package fixture defines the case table that drives a conformance run.
//
// A fixture is an ordered list of cases. Each case names the text a
// formatted-output function must produce for a format template and its
// arguments:
//
//	name: printf
//	cases:
//	  - name: int_width
//	    expect: "   42"
//	    format: "%5d"
//	    args: [42]
//	  - name: uint8_hex
//	    expect: "ff"
//	    format: "%x"
//	    args: [{uint8: 255}]
//
// # Arguments
//
// Plain scalars keep the type the decoder gives them: integers become int,
// floats float64, strings string, booleans bool and null becomes a nil
// interface. A single-key mapping selects an explicit Go type:
//
//	{int8: -128}  {uint64: 18446744073709551615}  {float32: 0.1}
//	{rune: "A"}   {rune: 19990}  {byte: 65}  {bytes: "hi"}  {nil: ~}
//
// Values that do not fit the requested type are load errors.
//
// # File Formats
//
// Fixtures are read from YAML (.yaml, .yml) with unknown fields rejected,
// or from CUE (.cue), where the document is unified with the #Fixture
// schema before it is decoded. Default returns the built-in table.
package fixture

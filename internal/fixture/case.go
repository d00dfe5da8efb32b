package fixture

import (
	"fmt"
	"path"
	"strconv"

	"github.com/roach88/fmtconform/internal/canon"
)

// Case is one fixture record. Cases are immutable after loading.
type Case struct {
	// Name identifies the case in diagnostics. Unique within a table.
	Name string `yaml:"name" json:"name"`

	// Expect is the exact text the format template must produce.
	Expect string `yaml:"expect" json:"expect"`

	// Format is the format template passed to the output function.
	Format string `yaml:"format" json:"format"`

	// Args are passed to the output function in order.
	Args Args `yaml:"args,omitempty" json:"args,omitempty"`
}

// Values returns the Go values of the case arguments.
func (c Case) Values() []any {
	vals := make([]any, len(c.Args))
	for i, a := range c.Args {
		vals[i] = a.Value
	}
	return vals
}

// Table is an ordered case list. Order is significant: cases run in
// listed order and the first failure stops the run.
type Table struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Cases       []Case `yaml:"cases" json:"cases"`
}

// Validate checks that the table is usable for a run.
func (t *Table) Validate() error {
	if len(t.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	seen := make(map[string]int, len(t.Cases))
	for i, c := range t.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if c.Format == "" {
			return fmt.Errorf("cases[%d] %s: format is required", i, c.Name)
		}
		if prev, dup := seen[c.Name]; dup {
			return fmt.Errorf("cases[%d]: duplicate name %q (first at cases[%d])", i, c.Name, prev)
		}
		seen[c.Name] = i
	}
	return nil
}

// Filter returns a table holding only the cases whose name matches the
// path.Match pattern. An empty pattern returns t unchanged.
func (t *Table) Filter(pattern string) (*Table, error) {
	if pattern == "" {
		return t, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	out := &Table{Name: t.Name, Description: t.Description}
	for _, c := range t.Cases {
		if ok, _ := path.Match(pattern, c.Name); ok {
			out.Cases = append(out.Cases, c)
		}
	}
	return out, nil
}

// Hash returns the content hash of the table name and cases. Two tables
// with the same hash drive identical runs. Texts are ASCII-quoted before
// hashing so that canonical NFC normalization cannot merge byte-distinct
// expectations.
func (t *Table) Hash() (string, error) {
	cases := make([]any, len(t.Cases))
	for i, c := range t.Cases {
		args := make([]any, len(c.Args))
		for j, a := range c.Args {
			args[j] = map[string]any{"type": a.Type, "value": strconv.QuoteToASCII(a.Repr())}
		}
		cases[i] = map[string]any{
			"name":   c.Name,
			"expect": strconv.QuoteToASCII(c.Expect),
			"format": strconv.QuoteToASCII(c.Format),
			"args":   args,
		}
	}
	return canon.HashValue(canon.DomainFixture, map[string]any{
		"name":  t.Name,
		"cases": cases,
	})
}

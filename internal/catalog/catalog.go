// Package catalog holds named unit constants such as ms, kHz or mV.
//
// Entries are quantities, so the catalog doubles as the vocabulary of the
// calc package:
//
//	c := catalog.Default()
//	v, _ := calc.Eval("3.3 * V / (10 * kA)", c)
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/ufloat/internal/calc"
	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/units"
)

// base symbols and the prefixed names derived from them, in definition
// order. Each expression may only refer to names defined before it.
var builtins = []Definition{
	{Name: "s", Unit: "s", Value: ptr(1)},
	{Name: "ms", Expr: "0.001*s"},
	{Name: "us", Expr: "0.001*ms"},
	{Name: "ns", Expr: "0.001*us"},
	{Name: "m", Unit: "m", Value: ptr(1)},
	{Name: "mm", Expr: "0.001*m"},
	{Name: "um", Expr: "0.001*mm"},
	{Name: "nm", Expr: "0.001*um"},
	{Name: "km", Expr: "1000*m"},
	{Name: "Hz", Expr: "1/s"},
	{Name: "kHz", Expr: "1000*Hz"},
	{Name: "MHz", Expr: "1000*kHz"},
	{Name: "GHz", Expr: "1000*MHz"},
	{Name: "V", Unit: "V", Value: ptr(1)},
	{Name: "mV", Expr: "0.001*V"},
	{Name: "uV", Expr: "0.001*mV"},
	{Name: "kV", Expr: "1000*V"},
	{Name: "MV", Expr: "1000*kV"},
	{Name: "A", Unit: "A", Value: ptr(1)},
	{Name: "mA", Expr: "0.001*A"},
	{Name: "uA", Expr: "0.001*mA"},
	{Name: "kA", Expr: "1000*A"},
	{Name: "MA", Expr: "1000*kA"},
}

func ptr(f float64) *float64 { return &f }

// Catalog maps names to quantities. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]quantity.Value
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]quantity.Value)}
}

// Default returns a catalog holding the built-in units.
func Default() *Catalog {
	c := New()
	if err := c.Apply(builtins); err != nil {
		panic(fmt.Sprintf("catalog: built-in definitions: %v", err))
	}
	return c
}

// Define adds or replaces name.
func (c *Catalog) Define(name string, v quantity.Value) error {
	if !validName(name) {
		return fmt.Errorf("catalog: invalid name %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = v
	return nil
}

// Get returns the quantity called name.
func (c *Catalog) Get(name string) (quantity.Value, error) {
	v, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown unit: %s", name)
	}
	return v, nil
}

// MustGet is like Get but panics if name is undefined.
func (c *Catalog) MustGet(name string) quantity.Value {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup implements calc.Env.
func (c *Catalog) Lookup(name string) (quantity.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[name]
	return v, ok
}

// Array returns name as a one-element array, for building arrays by
// multiplication: data * c.Array("mV").
func (c *Catalog) Array(name string) (*quantity.Array, error) {
	v, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	f, _ := quantity.Float(v)
	a, err := quantity.Make([]float64{f}, v.Unit(), quantity.Undegraded())
	if err != nil {
		return nil, err
	}
	return a.(*quantity.Array), nil
}

// Names lists every defined name in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Apply evaluates defs in order and defines each of them. Expressions see
// every entry defined so far, including earlier entries of defs.
func (c *Catalog) Apply(defs []Definition) error {
	for _, d := range defs {
		v, err := d.Eval(c)
		if err != nil {
			return fmt.Errorf("catalog: %s: %w", d.Name, err)
		}
		if err := c.Define(d.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// Definition describes one entry either as a value with a unit string or
// as an expression over earlier entries.
type Definition struct {
	Name  string   `yaml:"-"`
	Value *float64 `yaml:"value,omitempty"`
	Unit  string   `yaml:"unit,omitempty"`
	Expr  string   `yaml:"expr,omitempty"`
}

// Eval computes the quantity d describes.
func (d Definition) Eval(env calc.Env) (quantity.Value, error) {
	switch {
	case d.Expr != "" && d.Value != nil:
		return nil, fmt.Errorf("both value and expr given")
	case d.Expr != "":
		return calc.Eval(d.Expr, env)
	case d.Value != nil:
		u, err := units.Parse(d.Unit)
		if err != nil {
			return nil, err
		}
		return quantity.Make(*d.Value, u)
	}
	return nil, fmt.Errorf("neither value nor expr given")
}

func validName(name string) bool {
	if name == "" || name == "_" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		letter := b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
		if !letter && (i == 0 || b < '0' || b > '9') {
			return false
		}
	}
	return true
}

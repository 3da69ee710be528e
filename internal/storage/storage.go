// Package storage persists quantities in a hierarchical store of groups and
// datasets.
//
// A dataset holds the numeric payload of a value. When the value has a
// unit, the formatted unit is kept next to it as the attribute "unit", and
// reading the dataset wraps the payload back into a quantity. Attributes
// can carry units too; theirs live under ".<name>.unit".
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/units"
)

// UnitAttr is the attribute holding a dataset's unit.
const UnitAttr = "unit"

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrIsGroup      = errors.New("storage: path is a group")
	ErrNotGroup     = errors.New("storage: path is not a group")
	ErrUnitMismatch = errors.New("storage: unit does not match stored dataset")
	ErrInvalidPath  = errors.New("storage: invalid path")
)

// Store is a hierarchical container of datasets. Paths are "/"-separated;
// groups along a path are created on demand by Put.
type Store interface {
	Put(path string, v quantity.Value) error
	Get(path string) (quantity.Value, error)
	SetAttr(path, name string, v quantity.Value) error
	Attr(path, name string) (quantity.Value, error)
	List(group string) ([]Entry, error)
	Close() error
}

// Entry describes one child of a group.
type Entry struct {
	Name    string
	IsGroup bool
	Shape   []int
	Unit    string
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile Backend = "file"
	BackendBolt Backend = "bolt"
)

type options struct {
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger for debug output. The default discards it.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open opens the store of the given backend at path. For the file backend
// path is a directory, for bolt a database file.
func Open(backend Backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendFile, "":
		return OpenFile(path, opts...)
	case BackendBolt:
		return OpenBolt(path, opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// PutAll writes every value of values as a dataset of group, in name
// order. It keeps going past failures and returns all of them combined.
func PutAll(s Store, group string, values map[string]quantity.Value) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var err error
	for _, name := range names {
		err = multierr.Append(err, s.Put(group+"/"+name, values[name]))
	}
	return err
}

// splitPath validates p and returns its components. The root is the empty
// slice.
func splitPath(p string) ([]string, error) {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		switch {
		case part == "":
			continue
		case part == "." || part == ".." || strings.HasPrefix(part, "."):
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// datasetPath splits p and requires a non-root path.
func datasetPath(p string) ([]string, error) {
	parts, err := splitPath(p)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %q names the root group", ErrInvalidPath, p)
	}
	return parts, nil
}

// record is the stored form of a dataset.
type record struct {
	Shape []int             `json:"shape"`
	Data  Floats            `json:"data,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

func newRecord(v quantity.Value) record {
	arr := asNDArray(v)
	r := record{Shape: arr.Shape(), Data: arr.Values(), Attrs: map[string]string{}}
	if u := v.Unit(); !u.IsDimensionless() {
		r.Attrs[UnitAttr] = units.Format(u)
	}
	return r
}

func asNDArray(v quantity.Value) *ndarray.Array {
	if a, ok := v.(*quantity.Array); ok {
		return a.Data()
	}
	f, _ := quantity.Float(v)
	return ndarray.Scalar(f)
}

// checkOverwrite enforces that a dataset with a unit only accepts values of
// that unit.
func (r record) checkOverwrite(path string, v quantity.Value) error {
	sym, ok := r.Attrs[UnitAttr]
	if !ok {
		return nil
	}
	u, err := units.Parse(sym)
	if err != nil {
		return err
	}
	if err := units.CheckCompatible(u, v.Unit()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnitMismatch, path, err)
	}
	return nil
}

// value rebuilds the quantity held by r.
func (r record) value() (quantity.Value, error) {
	arr, err := ndarray.New(r.Data, r.Shape...)
	if err != nil {
		return nil, err
	}
	u, err := units.Parse(r.Attrs[UnitAttr])
	if err != nil {
		return nil, err
	}
	return quantity.Make(arr, u)
}

func (r record) unitSymbol() string { return r.Attrs[UnitAttr] }

func unitAttr(name string) string { return "." + name + ".unit" }

// setAttr stores v under name in attrs, with its unit alongside.
func setAttr(attrs map[string]string, name string, v quantity.Value) error {
	if name == "" || strings.HasPrefix(name, ".") || name == UnitAttr {
		return fmt.Errorf("storage: reserved attribute name %q", name)
	}
	f, ok := quantity.Float(v)
	if !ok {
		return fmt.Errorf("storage: attribute %s must be a scalar, got %v", name, v)
	}
	attrs[name] = strconv.FormatFloat(f, 'g', -1, 64)
	if u := v.Unit(); !u.IsDimensionless() {
		attrs[unitAttr(name)] = units.Format(u)
	} else {
		delete(attrs, unitAttr(name))
	}
	return nil
}

// getAttr reads name from attrs. The dataset unit is not an attribute
// value; List reports it as Entry.Unit.
func getAttr(attrs map[string]string, path, name string) (quantity.Value, error) {
	raw, ok := attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %s of %s", ErrNotFound, name, path)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("storage: attribute %s of %s: %w", name, path, err)
	}
	u, err := units.Parse(attrs[unitAttr(name)])
	if err != nil {
		return nil, err
	}
	return quantity.Make(f, u)
}

package storage

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/san-kum/ufloat/internal/quantity"
)

// ExportData is the JSON form of a dataset.
type ExportData struct {
	Shape  []int  `json:"shape"`
	Unit   string `json:"unit,omitempty"`
	Values Floats `json:"values"`
}

// ExportGroup is the JSON form of a group: its subgroups and datasets by
// name.
type ExportGroup struct {
	Groups   map[string]*ExportGroup `json:"groups,omitempty"`
	Datasets map[string]ExportData   `json:"datasets,omitempty"`
}

// Collect reads group and everything below it.
func Collect(s Store, group string) (*ExportGroup, error) {
	entries, err := s.List(group)
	if err != nil {
		return nil, err
	}
	out := &ExportGroup{}
	for _, e := range entries {
		path := group + "/" + e.Name
		if e.IsGroup {
			sub, err := Collect(s, path)
			if err != nil {
				return nil, err
			}
			if out.Groups == nil {
				out.Groups = make(map[string]*ExportGroup)
			}
			out.Groups[e.Name] = sub
			continue
		}
		v, err := s.Get(path)
		if err != nil {
			return nil, err
		}
		if out.Datasets == nil {
			out.Datasets = make(map[string]ExportData)
		}
		out.Datasets[e.Name] = ExportData{Shape: e.Shape, Unit: e.Unit, Values: values(v)}
	}
	return out, nil
}

func values(v quantity.Value) []float64 {
	if a, ok := v.(*quantity.Array); ok {
		return a.Values()
	}
	f, _ := quantity.Float(v)
	return []float64{f}
}

// ExportJSON writes group as indented JSON to path.
func ExportJSON(path string, s Store, group string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, file.Close()) }()
	return Export(file, s, group)
}

// Export writes group as indented JSON to w.
func Export(w io.Writer, s Store, group string) error {
	data, err := Collect(s, group)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/ufloat/internal/quantity"
)

const groupAttrsFile = ".attrs.json"

// FileStore keeps a store in a directory tree. Groups are directories; a
// dataset "name" is name.csv holding its values and name.json holding its
// shape and attributes.
type FileStore struct {
	baseDir string
	log     *zap.Logger
}

// OpenFile opens the store rooted at baseDir, creating the directory if it
// does not exist.
func OpenFile(baseDir string, opts ...Option) (*FileStore, error) {
	o := buildOptions(opts)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{baseDir: baseDir, log: o.logger}, nil
}

func (s *FileStore) Put(path string, v quantity.Value) error {
	parts, err := datasetPath(path)
	if err != nil {
		return err
	}
	dir, err := s.groupDir(parts[:len(parts)-1], true)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	name := parts[len(parts)-1]
	if isDir(filepath.Join(dir, name)) {
		return fmt.Errorf("put %s: %w", path, ErrIsGroup)
	}

	rec := newRecord(v)
	old, err := readRecord(filepath.Join(dir, name))
	switch {
	case err == nil:
		if err := old.checkOverwrite(path, v); err != nil {
			return err
		}
		for k, a := range old.Attrs {
			if k != UnitAttr {
				rec.Attrs[k] = a
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := writeValues(filepath.Join(dir, name+".csv"), rec); err != nil {
		return err
	}
	rec.Data = nil
	if err := writeJSON(filepath.Join(dir, name+".json"), rec); err != nil {
		return err
	}
	s.log.Debug("put dataset", zap.String("path", path), zap.Ints("shape", rec.Shape), zap.String("unit", rec.unitSymbol()))
	return nil
}

func (s *FileStore) Get(path string) (quantity.Value, error) {
	rec, err := s.dataset(path)
	if err != nil {
		return nil, err
	}
	s.log.Debug("get dataset", zap.String("path", path), zap.Ints("shape", rec.Shape))
	return rec.value()
}

func (s *FileStore) SetAttr(path, name string, v quantity.Value) error {
	h, err := s.attrs(path)
	if err != nil {
		return err
	}
	if err := setAttr(h.rec.Attrs, name, v); err != nil {
		return err
	}
	if h.group {
		return writeJSON(h.file, h.rec.Attrs)
	}
	return writeJSON(h.file, h.rec)
}

func (s *FileStore) Attr(path, name string) (quantity.Value, error) {
	h, err := s.attrs(path)
	if err != nil {
		return nil, err
	}
	return getAttr(h.rec.Attrs, path, name)
}

func (s *FileStore) List(group string) ([]Entry, error) {
	parts, err := splitPath(group)
	if err != nil {
		return nil, err
	}
	dir, err := s.groupDir(parts, false)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", group, err)
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		name := f.Name()
		switch {
		case strings.HasPrefix(name, "."):
			continue
		case f.IsDir():
			entries = append(entries, Entry{Name: name, IsGroup: true})
		case strings.HasSuffix(name, ".json"):
			name = strings.TrimSuffix(name, ".json")
			rec, err := readRecord(filepath.Join(dir, name))
			if err != nil {
				s.log.Debug("skip unreadable dataset", zap.String("name", name), zap.Error(err))
				continue
			}
			entries = append(entries, Entry{Name: name, Shape: rec.Shape, Unit: rec.unitSymbol()})
		}
	}
	return entries, nil
}

// Close is a no-op; every write is flushed before it returns.
func (s *FileStore) Close() error { return nil }

// groupDir resolves the directory of a group, creating missing groups when
// create is set.
func (s *FileStore) groupDir(parts []string, create bool) (string, error) {
	dir := s.baseDir
	for _, p := range parts {
		if fileExists(filepath.Join(dir, p+".json")) {
			return "", fmt.Errorf("%w: %s", ErrNotGroup, p)
		}
		dir = filepath.Join(dir, p)
	}
	if create {
		return dir, os.MkdirAll(dir, 0755)
	}
	if !isDir(dir) {
		return "", ErrNotFound
	}
	return dir, nil
}

func (s *FileStore) dataset(path string) (record, error) {
	parts, err := datasetPath(path)
	if err != nil {
		return record{}, err
	}
	base := filepath.Join(append([]string{s.baseDir}, parts...)...)
	if isDir(base) {
		return record{}, fmt.Errorf("get %s: %w", path, ErrIsGroup)
	}
	rec, err := readRecord(base)
	if errors.Is(err, fs.ErrNotExist) {
		return record{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return record{}, err
	}
	if rec.Data, err = readValues(base + ".csv"); err != nil {
		return record{}, err
	}
	return rec, nil
}

// attrHolder is the file holding the attributes of a path: a dataset's
// metadata file or a group's attribute file.
type attrHolder struct {
	file  string
	group bool
	rec   record
}

func (s *FileStore) attrs(path string) (attrHolder, error) {
	parts, err := splitPath(path)
	if err != nil {
		return attrHolder{}, err
	}
	base := filepath.Join(append([]string{s.baseDir}, parts...)...)
	if isDir(base) {
		h := attrHolder{file: filepath.Join(base, groupAttrsFile), group: true}
		h.rec.Attrs = map[string]string{}
		data, err := os.ReadFile(h.file)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &h.rec.Attrs); err != nil {
				return attrHolder{}, fmt.Errorf("%s: %w", h.file, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return attrHolder{}, err
		}
		return h, nil
	}
	rec, err := readRecord(base)
	if errors.Is(err, fs.ErrNotExist) {
		return attrHolder{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return attrHolder{}, err
	}
	return attrHolder{file: base + ".json", rec: rec}, nil
}

func readRecord(base string) (record, error) {
	data, err := os.ReadFile(base + ".json")
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("%s.json: %w", base, err)
	}
	if rec.Attrs == nil {
		rec.Attrs = map[string]string{}
	}
	return rec, nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeValues writes one row per index of the leading axis.
func writeValues(path string, rec record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := csv.NewWriter(f)
	rows, cols := 1, len(rec.Data)
	if len(rec.Shape) > 0 && rec.Shape[0] > 0 {
		rows, cols = rec.Shape[0], len(rec.Data)/rec.Shape[0]
	}
	for i := 0; i < rows && len(rec.Data) > 0; i++ {
		row := make([]string, cols)
		for j := range row {
			row[j] = strconv.FormatFloat(rec.Data[i*cols+j], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readValues(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var vals []float64
	for _, row := range rows {
		for _, field := range row {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			vals = append(vals, f)
		}
	}
	return vals, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/san-kum/ufloat/internal/quantity"
)

var (
	rootBucket = []byte("ufloat")
	attrsKey   = []byte(".attrs")
)

// BoltStore keeps a store in a single bolt database. Groups are nested
// buckets and datasets are JSON records keyed by name.
type BoltStore struct {
	db  *bolt.DB
	log *zap.Logger
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string, opts ...Option) (*BoltStore, error) {
	o := buildOptions(opts)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, log: o.logger}, nil
}

func (s *BoltStore) Put(path string, v quantity.Value) error {
	parts, err := datasetPath(path)
	if err != nil {
		return err
	}
	rec := newRecord(v)
	name := []byte(parts[len(parts)-1])

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(rootBucket)
		for _, p := range parts[:len(parts)-1] {
			next, err := b.CreateBucketIfNotExists([]byte(p))
			if errors.Is(err, bolt.ErrIncompatibleValue) {
				return fmt.Errorf("%w: %s", ErrNotGroup, p)
			}
			if err != nil {
				return err
			}
			b = next
		}
		if b.Bucket(name) != nil {
			return ErrIsGroup
		}

		if raw := b.Get(name); raw != nil {
			var old record
			if err := json.Unmarshal(raw, &old); err != nil {
				return err
			}
			if err := old.checkOverwrite(path, v); err != nil {
				return err
			}
			for k, a := range old.Attrs {
				if k != UnitAttr {
					rec.Attrs[k] = a
				}
			}
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(name, data)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	s.log.Debug("put dataset", zap.String("path", path), zap.Ints("shape", rec.Shape), zap.String("unit", rec.unitSymbol()))
	return nil
}

func (s *BoltStore) Get(path string) (quantity.Value, error) {
	parts, err := datasetPath(path)
	if err != nil {
		return nil, err
	}
	var rec record
	err = s.db.View(func(tx *bolt.Tx) error {
		b, err := walk(tx, parts[:len(parts)-1])
		if err != nil {
			return err
		}
		name := []byte(parts[len(parts)-1])
		if b.Bucket(name) != nil {
			return ErrIsGroup
		}
		raw := b.Get(name)
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	s.log.Debug("get dataset", zap.String("path", path), zap.Ints("shape", rec.Shape))
	return rec.value()
}

func (s *BoltStore) SetAttr(path, name string, v quantity.Value) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		h, err := loadAttrs(tx, parts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := setAttr(h.rec.Attrs, name, v); err != nil {
			return err
		}
		var data []byte
		if h.group {
			data, err = json.Marshal(h.rec.Attrs)
		} else {
			data, err = json.Marshal(h.rec)
		}
		if err != nil {
			return err
		}
		return h.bucket.Put(h.key, data)
	})
}

func (s *BoltStore) Attr(path, name string) (quantity.Value, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	var attrs map[string]string
	err = s.db.View(func(tx *bolt.Tx) error {
		h, err := loadAttrs(tx, parts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		attrs = h.rec.Attrs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return getAttr(attrs, path, name)
}

func (s *BoltStore) List(group string) ([]Entry, error) {
	parts, err := splitPath(group)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	err = s.db.View(func(tx *bolt.Tx) error {
		b, err := walk(tx, parts)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			if k[0] == '.' {
				return nil
			}
			if v == nil {
				entries = append(entries, Entry{Name: string(k), IsGroup: true})
				return nil
			}
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			entries = append(entries, Entry{Name: string(k), Shape: rec.Shape, Unit: rec.unitSymbol()})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", group, err)
	}
	return entries, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// walk descends from the root bucket through the groups in parts.
func walk(tx *bolt.Tx, parts []string) (*bolt.Bucket, error) {
	b := tx.Bucket(rootBucket)
	for _, p := range parts {
		next := b.Bucket([]byte(p))
		if next == nil {
			if b.Get([]byte(p)) != nil {
				return nil, fmt.Errorf("%w: %s", ErrNotGroup, p)
			}
			return nil, ErrNotFound
		}
		b = next
	}
	return b, nil
}

type boltAttrs struct {
	bucket *bolt.Bucket
	key    []byte
	group  bool
	rec    record
}

// loadAttrs finds the attribute holder of parts: the ".attrs" key of a
// group bucket or the record of a dataset.
func loadAttrs(tx *bolt.Tx, parts []string) (boltAttrs, error) {
	if b, err := walk(tx, parts); err == nil {
		h := boltAttrs{bucket: b, key: attrsKey, group: true}
		h.rec.Attrs = map[string]string{}
		if raw := b.Get(attrsKey); raw != nil {
			if err := json.Unmarshal(raw, &h.rec.Attrs); err != nil {
				return boltAttrs{}, err
			}
		}
		return h, nil
	}
	if len(parts) == 0 {
		return boltAttrs{}, ErrNotFound
	}

	b, err := walk(tx, parts[:len(parts)-1])
	if err != nil {
		return boltAttrs{}, err
	}
	h := boltAttrs{bucket: b, key: []byte(parts[len(parts)-1])}
	raw := b.Get(h.key)
	if raw == nil {
		return boltAttrs{}, ErrNotFound
	}
	if err := json.Unmarshal(raw, &h.rec); err != nil {
		return boltAttrs{}, err
	}
	if h.rec.Attrs == nil {
		h.rec.Attrs = map[string]string{}
	}
	return h, nil
}

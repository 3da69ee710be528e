package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/units"
)

var (
	metre  = units.MustParse("m")
	volt   = units.MustParse("V")
	second = units.MustParse("s")
)

// backends opens a fresh store of every kind.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	log := WithLogger(zaptest.NewLogger(t))

	fs, err := Open(BackendFile, filepath.Join(t.TempDir(), "data"), log)
	require.NoError(t, err)
	bs, err := Open(BackendBolt, filepath.Join(t.TempDir(), "data.db"), log)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, fs.Close())
		assert.NoError(t, bs.Close())
	})
	return map[string]Store{"file": fs, "bolt": bs}
}

func TestPutGetArray(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := quantity.FromValues([]float64{1, 2.5, -3}, metre)
			require.NoError(t, s.Put("run/x", a))

			got, err := s.Get("run/x")
			require.NoError(t, err)
			arr, ok := got.(*quantity.Array)
			require.True(t, ok, "got %T", got)
			assert.Equal(t, []float64{1, 2.5, -3}, arr.Values())
			assert.Equal(t, "m", arr.Symbol())
		})
	}
}

func TestPutGetNonFinite(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := quantity.FromValues([]float64{math.Inf(1), math.NaN(), math.Inf(-1)}, units.MustParse("m / s"))
			require.NoError(t, s.Put("run/v", a))

			got, err := s.Get("run/v")
			require.NoError(t, err)
			vals := got.(*quantity.Array).Values()
			require.Len(t, vals, 3)
			assert.True(t, math.IsInf(vals[0], 1))
			assert.True(t, math.IsNaN(vals[1]))
			assert.True(t, math.IsInf(vals[2], -1))

			var buf bytes.Buffer
			require.NoError(t, Export(&buf, s, ""))
			var exported ExportGroup
			require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
			out := exported.Groups["run"].Datasets["v"].Values
			require.Len(t, out, 3)
			assert.True(t, math.IsInf(out[0], 1))
			assert.True(t, math.IsNaN(out[1]))
			assert.True(t, math.IsInf(out[2], -1))
		})
	}
}

func TestFloatsJSON(t *testing.T) {
	data, err := json.Marshal(Floats{1.5, math.Inf(1), math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,"+Inf","NaN"]`, string(data))

	var f Floats
	require.NoError(t, json.Unmarshal([]byte(`[2,"-Inf"]`), &f))
	assert.Equal(t, 2.0, f[0])
	assert.True(t, math.IsInf(f[1], -1))

	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &f))
}

func TestPutGetMatrix(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a, err := quantity.Make([]float64{1, 2, 3, 4, 5, 6}, volt)
			require.NoError(t, err)
			m, err := a.(*quantity.Array).Reshape(2, 3)
			require.NoError(t, err)
			require.NoError(t, s.Put("m", m))

			got, err := s.Get("m")
			require.NoError(t, err)
			arr := got.(*quantity.Array)
			assert.Equal(t, []int{2, 3}, arr.Shape())
			assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, arr.Values())
		})
	}
}

func TestScalarDegrades(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("g", quantity.New(9.81, units.MustParse("m / s**2"))))
			require.NoError(t, s.Put("n", quantity.Number(7)))

			g, err := s.Get("g")
			require.NoError(t, err)
			sc, ok := g.(quantity.Scalar)
			require.True(t, ok, "got %T", g)
			assert.Equal(t, 9.81, sc.Value())
			assert.Equal(t, "m / s**2", sc.Symbol())

			n, err := s.Get("n")
			require.NoError(t, err)
			assert.Equal(t, quantity.Number(7), n)
		})
	}
}

func TestOverwriteChecksUnit(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("x", quantity.FromValues([]float64{1, 2}, metre)))

			err := s.Put("x", quantity.FromValues([]float64{1, 2}, second))
			assert.ErrorIs(t, err, ErrUnitMismatch)
			assert.ErrorIs(t, err, units.ErrIncompatibleUnits)

			err = s.Put("x", quantity.FromValues([]float64{3, 4}, units.Dimensionless))
			assert.ErrorIs(t, err, ErrUnitMismatch)

			require.NoError(t, s.Put("x", quantity.FromValues([]float64{5, 6, 7}, metre)))
			got, err := s.Get("x")
			require.NoError(t, err)
			assert.Equal(t, []float64{5, 6, 7}, got.(*quantity.Array).Values())

			require.NoError(t, s.Put("plain", quantity.FromValues([]float64{1, 2}, units.Dimensionless)))
			assert.NoError(t, s.Put("plain", quantity.FromValues([]float64{1, 2}, metre)))
		})
	}
}

func TestPathErrors(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("grp/x", quantity.Number(1)))

			_, err := s.Get("grp/missing")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.Get("nothere/x")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = s.Get("grp")
			assert.ErrorIs(t, err, ErrIsGroup)
			assert.ErrorIs(t, s.Put("grp", quantity.Number(1)), ErrIsGroup)

			assert.ErrorIs(t, s.Put("grp/x/y", quantity.Number(1)), ErrNotGroup)
			assert.ErrorIs(t, s.Put("", quantity.Number(1)), ErrInvalidPath)
			assert.ErrorIs(t, s.Put("a/../b", quantity.Number(1)), ErrInvalidPath)
			assert.ErrorIs(t, s.Put(".hidden", quantity.Number(1)), ErrInvalidPath)
		})
	}
}

func TestAttributes(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("run/v", quantity.FromValues([]float64{1, 2}, volt)))

			require.NoError(t, s.SetAttr("run/v", "dt", quantity.New(0.001, second)))
			require.NoError(t, s.SetAttr("run", "gain", quantity.Number(2)))
			require.NoError(t, s.SetAttr("/", "version", quantity.Number(3)))

			dt, err := s.Attr("run/v", "dt")
			require.NoError(t, err)
			assert.Equal(t, quantity.New(0.001, second), dt)

			gain, err := s.Attr("run", "gain")
			require.NoError(t, err)
			assert.Equal(t, quantity.Number(2), gain)

			version, err := s.Attr("", "version")
			require.NoError(t, err)
			assert.Equal(t, quantity.Number(3), version)

			_, err = s.Attr("run/v", "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.Attr("run/nope", "dt")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.Error(t, s.SetAttr("run/v", UnitAttr, quantity.Number(1)))
			assert.Error(t, s.SetAttr("run/v", "arr", quantity.FromValues([]float64{1, 2}, volt)))

			// rewriting the dataset keeps its other attributes
			require.NoError(t, s.Put("run/v", quantity.FromValues([]float64{3}, volt)))
			dt, err = s.Attr("run/v", "dt")
			require.NoError(t, err)
			assert.Equal(t, quantity.New(0.001, second), dt)

			// dropping an attribute's unit clears the stored one
			require.NoError(t, s.SetAttr("run/v", "dt", quantity.Number(5)))
			dt, err = s.Attr("run/v", "dt")
			require.NoError(t, err)
			assert.Equal(t, quantity.Number(5), dt)
		})
	}
}

func TestList(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, PutAll(s, "run", map[string]quantity.Value{
				"v": quantity.FromValues([]float64{1, 2, 3}, volt),
				"t": quantity.FromValues([]float64{0, 1, 2}, second),
				"n": quantity.Number(4),
			}))
			require.NoError(t, s.Put("run/sub/x", quantity.Number(1)))
			require.NoError(t, s.SetAttr("run", "gain", quantity.Number(2)))

			entries, err := s.List("run")
			require.NoError(t, err)
			assert.Equal(t, []Entry{
				{Name: "n"},
				{Name: "sub", IsGroup: true},
				{Name: "t", Shape: []int{3}, Unit: "s"},
				{Name: "v", Shape: []int{3}, Unit: "V"},
			}, entries)

			root, err := s.List("")
			require.NoError(t, err)
			assert.Equal(t, []Entry{{Name: "run", IsGroup: true}}, root)

			_, err = s.List("missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestExport(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("run/v", quantity.FromValues([]float64{1, 2}, volt)))
			require.NoError(t, s.Put("k", quantity.Number(3)))

			var buf bytes.Buffer
			require.NoError(t, Export(&buf, s, ""))

			var got ExportGroup
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			require.Contains(t, got.Groups, "run")
			assert.Equal(t, ExportData{Shape: []int{2}, Unit: "V", Values: []float64{1, 2}}, got.Groups["run"].Datasets["v"])
			assert.Equal(t, Floats{3}, got.Datasets["k"].Values)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("hdf5", t.TempDir())
	assert.Error(t, err)
}

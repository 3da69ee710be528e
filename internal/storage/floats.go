package storage

import (
	"encoding/json"
	"math"
	"strconv"
)

// Floats is a float64 slice whose JSON form keeps non-finite values:
// finite entries are numbers, +Inf, -Inf and NaN are strings.
type Floats []float64

func (f Floats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	buf := []byte{'['}
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			buf = strconv.AppendQuote(buf, strconv.FormatFloat(v, 'g', -1, 64))
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

func (f *Floats) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Floats, len(raw))
	for i, r := range raw {
		s := string(r)
		if len(r) > 0 && r[0] == '"' {
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		out[i] = v
	}
	*f = out
	return nil
}

package units

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		u    Unit
		want string
	}{
		{"dimensionless", Dimensionless, ""},
		{"single", Of("m"), "m"},
		{"acceleration", New(Term{"m", 1}, Term{"s", -2}), "m / s**2"},
		{"frequency", New(Term{"s", -1}), "1 / s"},
		{"numerator only", New(Term{"kg", 1}, Term{"m", 2}), "kg m**2"},
		{"fractional", New(Term{"Hz", 0.5}), "Hz**0.5"},
		{"fractional denominator", New(Term{"V", 1}, Term{"Hz", -0.5}), "V / Hz**0.5"},
		{"insertion order", New(Term{"s", -3}, Term{"m", 2}, Term{"A", -1}, Term{"kg", 1}), "m**2 kg / s**3 A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.u); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]float64
	}{
		{"", map[string]float64{}},
		{"m", map[string]float64{"m": 1}},
		{"m / s**2", map[string]float64{"m": 1, "s": -2}},
		{"m/s**2", map[string]float64{"m": 1, "s": -2}},
		{"1 / s", map[string]float64{"s": -1}},
		{"kg m**2 / s**3 A", map[string]float64{"kg": 1, "m": 2, "s": -3, "A": -1}},
		{"m**-1", map[string]float64{"m": -1}},
		{"Hz**0.5", map[string]float64{"Hz": 0.5}},
		{"m m", map[string]float64{"m": 2}},
		{"m / m", map[string]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if !Equal(got, FromMap(tt.want)) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got.Map(), tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"m / s / kg", "**2", "m**x", "m*s", "(m)", "m**NaN", "s**Inf", "m / s**-inf"} {
		_, err := Parse(in)
		if !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q) error = %v, want ErrParse", in, err)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Input != in {
			t.Errorf("Parse(%q) error = %#v, want *ParseError for input", in, err)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	samples := []Unit{
		Dimensionless,
		Of("m"),
		New(Term{"m", 1}, Term{"s", -2}),
		New(Term{"s", -1}),
		New(Term{"A", -1}, Term{"V", 1}, Term{"s", 0.5}),
		New(Term{"kg", 1}, Term{"m", 2}, Term{"s", -3}, Term{"A", -1}),
		New(Term{"m", 0}, Term{"s", 4}),
	}

	for _, u := range samples {
		got, err := Parse(Format(u))
		if err != nil {
			t.Fatalf("Parse(Format(%v)) error: %v", u.Map(), err)
		}
		if !Equal(got, Simplify(u)) {
			t.Errorf("Parse(Format(%v)) = %v", u.Map(), got.Map())
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on malformed input")
		}
	}()
	MustParse("a / b / c")
}

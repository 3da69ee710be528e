package export

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/ufloat/internal/quantity"
)

var ErrTooFewPoints = errors.New("export: need at least two points")

// SeriesToSVG plots the values of a against their flat index.
func SeriesToSVG(a *quantity.Array, title string, width, height int, strokeColor string) (string, error) {
	ys := a.Values()
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return plot(xs, ys, label(title, a), "index", width, height, strokeColor)
}

// XYToSVG plots y against x. Both must hold the same number of elements;
// each axis is labelled with its array's unit.
func XYToSVG(x, y *quantity.Array, title string, width, height int, strokeColor string) (string, error) {
	if x.Size() != y.Size() {
		return "", fmt.Errorf("export: x has %d values, y has %d", x.Size(), y.Size())
	}
	return plot(x.Values(), y.Values(), label(title, y), label("", x), width, height, strokeColor)
}

func label(name string, a *quantity.Array) string {
	sym := a.Symbol()
	switch {
	case sym == "":
		return name
	case name == "":
		return "[" + sym + "]"
	}
	return name + " [" + sym + "]"
}

func bounds(vals []float64) (lo, span float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span = hi - lo
	if span == 0 {
		span = 1
	}
	// 10% padding on both sides
	return lo - span*0.1, span * 1.2
}

func plot(xs, ys []float64, yLabel, xLabel string, width, height int, strokeColor string) (string, error) {
	if len(ys) < 2 {
		return "", ErrTooFewPoints
	}
	minX, rangeX := bounds(xs)
	minY, rangeY := bounds(ys)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">%s</text>
<text x="%d" y="%d" fill="#888899" font-family="monospace" font-size="12" text-anchor="end">%s</text>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height,
		html.EscapeString(yLabel),
		width-8, height-8, html.EscapeString(xLabel),
		strokeColor))

	for i := range ys {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String(), nil
}

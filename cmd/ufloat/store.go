package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/san-kum/ufloat/internal/config"
	"github.com/san-kum/ufloat/internal/export"
	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/storage"
	"github.com/san-kum/ufloat/internal/units"
)

// withStore opens the configured store, runs fn and closes the store.
func withStore(cmd *cobra.Command, fn func(e *env, st storage.Store) error) (err error) {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	st, err := e.open()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()
	return fn(e, st)
}

func putDataset(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(e *env, st storage.Store) error {
		vals := make([]float64, 0, len(args)-1)
		for _, s := range args[1:] {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", s, err)
			}
			vals = append(vals, f)
		}
		data, err := ndarray.New(vals, shape...)
		if err != nil {
			return err
		}
		u, err := units.Parse(unitStr)
		if err != nil {
			return err
		}
		v, err := quantity.Make(data, u)
		if err != nil {
			return err
		}
		if err := st.Put(args[0], v); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], v)
		return nil
	})
}

func getDataset(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(e *env, st storage.Store) error {
		v, err := st.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	})
}

func listGroup(cmd *cobra.Command, args []string) error {
	group := ""
	if len(args) > 0 {
		group = args[0]
	}
	return withStore(cmd, func(e *env, st storage.Store) error {
		entries, err := st.List(group)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no datasets found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSHAPE\tUNIT")
		for _, en := range entries {
			if en.IsGroup {
				fmt.Fprintf(w, "%s/\t-\t-\n", en.Name)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", en.Name, formatShape(en.Shape), en.Unit)
		}
		return w.Flush()
	})
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = strconv.Itoa(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func loadArray(st storage.Store, path string) (*quantity.Array, error) {
	v, err := st.Get(path)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*quantity.Array)
	if !ok {
		return nil, fmt.Errorf("%s: %w (got %s)", path, errNotArray, v)
	}
	return a, nil
}

func datasetStats(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(e *env, st storage.Store) error {
		a, err := loadArray(st, args[0])
		if err != nil {
			return err
		}
		lo, err := a.Min()
		if err != nil {
			return err
		}
		hi, err := a.Max()
		if err != nil {
			return err
		}
		ptp, err := a.Ptp()
		if err != nil {
			return err
		}

		fmt.Printf("dataset: %s\n", args[0])
		fmt.Printf("shape: %s\n\n", formatShape(a.Shape()))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, row := range []struct {
			name string
			v    quantity.Value
		}{
			{"sum", a.Sum()},
			{"mean", a.Mean()},
			{"min", lo},
			{"max", hi},
			{"ptp", ptp},
			{"std", a.Std()},
			{"var", a.Var()},
		} {
			fmt.Fprintf(w, "  %s\t%s\n", row.name, e.format(row.v))
		}
		return w.Flush()
	})
}

func plotDataset(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(e *env, st storage.Store) error {
		a, err := loadArray(st, args[0])
		if err != nil {
			return err
		}
		if a.Size() == 0 {
			return fmt.Errorf("no data to plot")
		}

		if svgFile != "" {
			svg, err := plotSVG(st, a, args[0], e.cfg.Plot)
			if err != nil {
				return err
			}
			if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", svgFile)
			return nil
		}

		caption := args[0]
		if sym := a.Symbol(); sym != "" {
			caption += " [" + sym + "]"
		}
		graph := asciigraph.Plot(a.Values(),
			asciigraph.Height(e.cfg.Plot.Height),
			asciigraph.Width(e.cfg.Plot.Width),
			asciigraph.Precision(uint(max(0, min(e.cfg.Precision, 6)))),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		return nil
	})
}

// plotSVG renders a against its index, or against the --x dataset. One
// character cell of the terminal plot becomes 10x20 pixels.
func plotSVG(st storage.Store, a *quantity.Array, title string, size config.PlotConfig) (string, error) {
	w, h := size.Width*10, size.Height*20
	if xPath == "" {
		return export.SeriesToSVG(a, title, w, h, "#00ccff")
	}
	x, err := loadArray(st, xPath)
	if err != nil {
		return "", err
	}
	return export.XYToSVG(x, a, title, w, h, "#00ccff")
}

func exportGroup(cmd *cobra.Command, args []string) error {
	group := ""
	if len(args) > 0 {
		group = args[0]
	}
	return withStore(cmd, func(e *env, st storage.Store) error {
		if outFile == "" {
			return storage.Export(os.Stdout, st, group)
		}
		if err := storage.ExportJSON(outFile, st, group); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
		return nil
	})
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/ufloat/internal/calc"
	"github.com/san-kum/ufloat/internal/catalog"
	"github.com/san-kum/ufloat/internal/config"
	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/storage"
	"github.com/san-kum/ufloat/internal/tui"
	"github.com/san-kum/ufloat/internal/units"
)

var (
	configFile string
	dataDir    string
	backend    string
	precision  int
	verbose    bool
	theme      string
	// put
	unitStr string
	shape   []int
	// catalog
	set string
	// plot
	height  int
	width   int
	svgFile string
	xPath   string
	// export
	outFile string
)

// env is what every command needs: the merged configuration, a logger and
// the unit catalog.
type env struct {
	cfg *config.Config
	log *zap.Logger
	cat *catalog.Catalog
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "ufloat",
		Short:         "unit-aware numbers and arrays",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", string(storage.BackendFile), "storage backend (file, bolt)")
	rootCmd.PersistentFlags().IntVar(&precision, "precision", config.DefaultPrecision, "significant digits in tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", tui.ThemeTerminal.Name, "color theme ("+strings.Join(tui.ThemeNames(), ", ")+")")

	calcCmd := &cobra.Command{
		Use:   "calc [expr]",
		Short: "evaluate an expression",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCalc,
	}

	unitCmd := &cobra.Command{
		Use:   "unit [unit]",
		Short: "parse and normalize a unit string",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnit,
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "list unit constants",
		Args:  cobra.NoArgs,
		RunE:  listCatalog,
	}
	catalogCmd.Flags().StringVar(&set, "set", "", "only list one set ("+strings.Join(config.ListSets(), ", ")+")")

	putCmd := &cobra.Command{
		Use:   "put [path] [values...]",
		Short: "store values as a dataset",
		Args:  cobra.MinimumNArgs(2),
		RunE:  putDataset,
	}
	putCmd.Flags().StringVarP(&unitStr, "unit", "u", "", "unit of the values")
	putCmd.Flags().IntSliceVar(&shape, "shape", nil, "shape of the values")

	getCmd := &cobra.Command{
		Use:   "get [path]",
		Short: "print a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  getDataset,
	}

	lsCmd := &cobra.Command{
		Use:   "ls [group]",
		Short: "list a group",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listGroup,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [path]",
		Short: "summary statistics of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  datasetStats,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [path]",
		Short: "plot a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  plotDataset,
	}
	plotCmd.Flags().IntVar(&height, "height", config.DefaultPlotHeight, "plot height")
	plotCmd.Flags().IntVar(&width, "width", config.DefaultPlotWidth, "plot width")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "write an SVG plot to this file")
	plotCmd.Flags().StringVar(&xPath, "x", "", "dataset for the x axis (svg only)")

	exportCmd := &cobra.Command{
		Use:   "export [group]",
		Short: "export a group to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportGroup,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "interactive calculator",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}

	rootCmd.AddCommand(calcCmd, unitCmd, catalogCmd, putCmd, getCmd, lsCmd, statsCmd, plotCmd, exportCmd, replCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the config file, lets explicitly set flags override it and
// builds the catalog.
func setup(cmd *cobra.Command) (*env, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("backend") || configFile == "" {
		cfg.Backend = storage.Backend(backend)
	}
	if flags.Changed("precision") || configFile == "" {
		cfg.Precision = precision
	}
	if flags.Lookup("height") != nil && (flags.Changed("height") || configFile == "") {
		cfg.Plot.Height = height
	}
	if flags.Lookup("width") != nil && (flags.Changed("width") || configFile == "") {
		cfg.Plot.Width = width
	}

	log := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		log = dev
	}

	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	log.Debug("config ready",
		zap.String("config", configFile),
		zap.String("data", cfg.DataDir),
		zap.String("backend", string(cfg.Backend)),
		zap.Int("units", cat.Len()))
	return &env{cfg: cfg, log: log, cat: cat}, nil
}

func (e *env) open() (storage.Store, error) {
	return storage.Open(e.cfg.Backend, e.cfg.StorePath(), storage.WithLogger(e.log))
}

func (e *env) styles() tui.Styles {
	return tui.NewStyles(tui.GetTheme(theme))
}

// format renders a scalar-like value with the configured precision.
func (e *env) format(v quantity.Value) string {
	f, ok := quantity.Float(v)
	if !ok {
		return v.String()
	}
	s := strconv.FormatFloat(f, 'g', e.cfg.Precision, 64)
	if u := v.Unit(); !u.IsDimensionless() {
		s += " [" + units.Format(u) + "]"
	}
	return s
}

func runCalc(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	ev := calc.New(e.cat)
	r, err := ev.Eval(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(tui.Render(e.styles(), r))
	return nil
}

func runUnit(cmd *cobra.Command, args []string) error {
	u, err := units.Parse(args[0])
	if err != nil {
		return err
	}
	u = units.Simplify(u)
	if u.IsDimensionless() {
		fmt.Println("dimensionless")
		return nil
	}

	fmt.Printf("unit: %s\n", units.Format(u))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tEXPONENT")
	for _, t := range u.Terms() {
		fmt.Fprintf(w, "%s\t%s\n", t.Symbol, strconv.FormatFloat(t.Exp, 'g', -1, 64))
	}
	return w.Flush()
}

func listCatalog(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	names := e.cat.Names()
	if set != "" {
		names = config.GetSet(set)
		if names == nil {
			return fmt.Errorf("unknown set: %s (available: %v)", set, config.ListSets())
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE\tUNIT")
	for _, name := range names {
		v, err := e.cat.Get(name)
		if err != nil {
			return err
		}
		f, _ := quantity.Float(v)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strconv.FormatFloat(f, 'g', e.cfg.Precision, 64), units.Format(v.Unit()))
	}
	return w.Flush()
}

func runREPL(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	return tui.Run(e.cat, tui.WithTheme(tui.GetTheme(theme)), tui.WithHistory(e.cfg.History))
}

var errNotArray = errors.New("dataset is not an array")

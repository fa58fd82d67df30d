// Package main provides the CLI entrypoint for agenet.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/agenet/internal/config"
	"github.com/verte-zerg/agenet/internal/dataset"
	"github.com/verte-zerg/agenet/internal/filter"
	"github.com/verte-zerg/agenet/internal/logging"
	"github.com/verte-zerg/agenet/internal/model"
	"github.com/verte-zerg/agenet/internal/network"
	"github.com/verte-zerg/agenet/internal/render"
	"github.com/verte-zerg/agenet/internal/store"
	"github.com/verte-zerg/agenet/internal/tui"
)

const (
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
	defaultExportOut = "network.png"
)

var (
	dataPath  string
	logLevel  string
	logFormat string

	filterCategory string
	filterGender   string
	filterPayment  string
	filterSeason   string
	filterProduct  string

	exportOut    string
	exportWidth  int
	exportHeight int
)

// settings are the resolved flag and config values for one command run.
type settings struct {
	dataPath  string
	logLevel  string
	logFormat string
	logFile   string
	initial   tui.Initial
	width     int
	height    int
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "agenet",
		Short:         "Explore how product purchases spread across customer age groups",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runViewCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataPath, "data", "", "dataset file (.csv, or .db from 'agenet import')")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", defaultLogFormat, "log format (text, json)")
	pf.StringVar(&filterCategory, "category", model.AllLabel, "product category filter")
	pf.StringVar(&filterGender, "gender", model.AllLabel, "gender filter (Male, Female)")
	pf.StringVar(&filterPayment, "payment", model.AllLabel, "payment method filter")
	pf.StringVar(&filterSeason, "season", model.AllLabel, "season filter")
	rootCmd.Flags().StringVar(&filterProduct, "product", "", "initially selected product")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newProductsCmd())
	rootCmd.AddCommand(newNetworkCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func runViewCmd(cmd *cobra.Command, _ []string) error {
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if st.logFile == "" {
		st.logFile = config.DefaultLogPath()
	}
	logger, closeLog, err := logging.New(logging.Options{Level: st.logLevel, Format: st.logFormat, File: st.logFile})
	if err != nil {
		return err
	}
	defer closeQuietly(closeLog)

	records, err := loadRecords(cmd.Context(), st, logger)
	if err != nil {
		return err
	}

	m := tui.NewModel(records, st.initial, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List product names for the selected category",
		Args:  cobra.NoArgs,
		RunE:  runProductsCmd,
	}
}

func runProductsCmd(cmd *cobra.Command, _ []string) error {
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Options{Level: st.logLevel, Format: st.logFormat, File: st.logFile})
	if err != nil {
		return err
	}
	defer closeQuietly(closeLog)

	records, err := loadRecords(cmd.Context(), st, logger)
	if err != nil {
		return err
	}
	products := filter.AvailableProducts(records, model.ParseConstraint(st.initial.Category))
	if len(products) == 0 {
		logErrf("No products found for category %q\n", st.initial.Category)
		return nil
	}
	for _, p := range products {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newNetworkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Print the age-group network for a product",
		Args:  cobra.NoArgs,
		RunE:  runNetworkCmd,
	}
	cmd.Flags().StringVar(&filterProduct, "product", "", "product name (required)")
	return cmd
}

func runNetworkCmd(cmd *cobra.Command, _ []string) error {
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	net, err := buildNetwork(cmd.Context(), st)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := render.WriteReport(out, net, render.TerminalWidth(out), render.ShouldUseColor(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the age-group distribution for a product as a PNG chart",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&filterProduct, "product", "", "product name (required)")
	cmd.Flags().StringVar(&exportOut, "out", defaultExportOut, "output PNG path")
	cmd.Flags().IntVar(&exportWidth, "width", render.DefaultChartWidth, "image width in pixels")
	cmd.Flags().IntVar(&exportHeight, "height", render.DefaultChartHeight, "image height in pixels")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if st.width <= 0 || st.height <= 0 {
		return fmt.Errorf("--width and --height must be > 0")
	}
	net, err := buildNetwork(cmd.Context(), st)
	if err != nil {
		return err
	}
	if err := writePNG(exportOut, net, st.width, st.height); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	logErrf("Wrote %s\n", exportOut)
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv> <db>",
		Short: "Copy a CSV dataset into a SQLite file",
		Args:  cobra.ExactArgs(2),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]
	if dataset.IsSQLite(src) {
		return fmt.Errorf("source must be a CSV file: %s", src)
	}
	if !dataset.IsSQLite(dst) {
		return fmt.Errorf("destination must end in .db, .sqlite or .sqlite3: %s", dst)
	}
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Options{Level: st.logLevel, Format: st.logFormat, File: st.logFile})
	if err != nil {
		return err
	}
	defer closeQuietly(closeLog)

	records, err := dataset.Load(cmd.Context(), src, logger)
	if err != nil {
		return err
	}
	db, err := store.Open(dst)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := db.ReplaceRecords(cmd.Context(), records); err != nil {
		return fmt.Errorf("failed to import records: %w", err)
	}
	stored, err := db.CountRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	logErrf("Imported %d records into %s\n", stored, dst)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// outcomeError carries the user-facing wording of an empty result so cobra
// prints it once.
type outcomeError struct {
	heading string
	message string
	err     error
}

func (e *outcomeError) Error() string {
	return e.heading + ": " + e.message
}

func (e *outcomeError) Unwrap() error {
	return e.err
}

// buildNetwork loads the dataset and runs one query from resolved settings.
func buildNetwork(ctx context.Context, st settings) (model.PurchaseNetwork, error) {
	if strings.TrimSpace(st.initial.Product) == "" {
		return model.PurchaseNetwork{}, fmt.Errorf("--product is required (see: agenet products)")
	}
	logger, closeLog, err := logging.New(logging.Options{Level: st.logLevel, Format: st.logFormat, File: st.logFile})
	if err != nil {
		return model.PurchaseNetwork{}, err
	}
	defer closeQuietly(closeLog)

	records, err := loadRecords(ctx, st, logger)
	if err != nil {
		return model.PurchaseNetwork{}, err
	}
	net, err := network.Generate(records, criteriaFor(st.initial))
	if err != nil {
		if heading, message, ok := network.Outcome(err); ok {
			return model.PurchaseNetwork{}, &outcomeError{heading: heading, message: message, err: err}
		}
		return model.PurchaseNetwork{}, err
	}
	return net, nil
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data", &dataPath, fileCfg.Data.Path)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
	applyStringConfig(cmd, "category", &filterCategory, fileCfg.Filters.Category)
	applyStringConfig(cmd, "gender", &filterGender, fileCfg.Filters.Gender)
	applyStringConfig(cmd, "payment", &filterPayment, fileCfg.Filters.Payment)
	applyStringConfig(cmd, "season", &filterSeason, fileCfg.Filters.Season)
	applyIntConfig(cmd, "width", &exportWidth, fileCfg.Export.Width)
	applyIntConfig(cmd, "height", &exportHeight, fileCfg.Export.Height)

	st := settings{
		dataPath:  strings.TrimSpace(dataPath),
		logLevel:  logLevel,
		logFormat: logFormat,
		initial: tui.Initial{
			Category: filterCategory,
			Product:  filterProduct,
			Gender:   filterGender,
			Payment:  filterPayment,
			Season:   filterSeason,
		},
		width:  exportWidth,
		height: exportHeight,
	}
	if fileCfg.Log.File != nil {
		st.logFile = *fileCfg.Log.File
	}
	if err := validateSettings(st); err != nil {
		return settings{}, err
	}
	return st, nil
}

func validateSettings(st settings) error {
	if g := st.initial.Gender; !model.ParseConstraint(g).IsAny() {
		if _, ok := model.ParseGender(g); !ok {
			return fmt.Errorf("--gender must be All, Male or Female")
		}
	}
	switch strings.ToLower(st.logFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("--log-format must be text or json")
	}
	return nil
}

func criteriaFor(initial tui.Initial) model.FilterCriteria {
	return model.FilterCriteria{
		Category: model.ParseConstraint(initial.Category),
		Product:  strings.TrimSpace(initial.Product),
		Gender:   model.ParseConstraint(initial.Gender),
		Payment:  model.ParseConstraint(initial.Payment),
		Season:   model.ParseConstraint(initial.Season),
	}
}

func loadRecords(ctx context.Context, st settings, logger *slog.Logger) ([]model.Record, error) {
	if st.dataPath == "" {
		return nil, fmt.Errorf("no dataset: pass --data or set [data] path in %s", config.DefaultConfigPath())
	}
	records, err := dataset.Load(ctx, st.dataPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", st.dataPath, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no records", st.dataPath)
	}
	return records, nil
}

func writePNG(path string, net model.PurchaseNetwork, width, height int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "network-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp image: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := render.WritePNG(writer, net, width, height); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# agenet configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# path = "shopping_behavior_updated.csv"   # Dataset (.csv or .db)

[filters]
# category = %q        # Initial product category
# gender = %q          # All, Male or Female
# payment = %q         # Initial payment method
# season = %q          # Initial season

[log]
# level = %q          # debug, info, warn, error
# format = %q         # text or json
# file = "agenet.log"    # Log file (the TUI defaults to %s)

[export]
# width = %d            # PNG width in pixels
# height = %d           # PNG height in pixels
`,
		model.AllLabel,
		model.AllLabel,
		model.AllLabel,
		model.AllLabel,
		defaultLogLevel,
		defaultLogFormat,
		config.DefaultLogPath(),
		render.DefaultChartWidth,
		render.DefaultChartHeight,
	)
}

func closeQuietly(closeFn func() error) {
	if err := closeFn(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// Package main provides the CLI entry point for spreadsheet2json.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mas3/spreadsheet2json/internal/config"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/numfmt"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/output"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	input         string
	output        string
	configPath    string
	locale        string
	sheets        string
	cellFormat    bool
	cellRowColumn bool
	debug         bool
	noCellData    bool
	noEncode      bool
	noIndent      bool
	noProperties  bool
	objectFormat  bool
	sheetInfo     bool
	noColor       bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	var fl cliFlags
	cmd := newRootCommand(&fl, stdout, stderr)
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.Execute(); err != nil {
		if fl.noColor {
			color.NoColor = true
		}
		printError(stderr, err, fl.debug)
		return output.ExitUserError
	}
	return output.ExitOK
}

func newRootCommand(fl *cliFlags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spreadsheet2json [flags] [-i] input.xlsx",
		Short: "Convert Excel workbooks to JSON",
		Long: `spreadsheet2json converts the cells of an .xlsx workbook into a JSON document.
Cell values are typed and rendered the way the spreadsheet application displays
them for the selected locale.`,
		Version:       spreadsheet2json.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if fl.input != "" && fl.input != args[0] {
					return fmt.Errorf("input given twice: %s and %s", fl.input, args[0])
				}
				fl.input = args[0]
			}
			return run(cmd.Flags(), fl, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&fl.input, "input", "i", "", "Input workbook path")
	f.StringVarP(&fl.output, "output", "o", "", "Output file path (default: stdout)")
	f.StringVar(&fl.configPath, "config", "", "Config file (default: ~/.spreadsheet2json/config.yaml)")
	f.StringVar(&fl.locale, "locale", "", "Locale for format codes and date patterns, e.g. ja-JP")
	f.StringVar(&fl.sheets, "sheets", "", "Colon-separated sheet names to include")
	f.BoolVar(&fl.cellFormat, "cell-format", false, "Include number format code and id of each cell")
	f.BoolVar(&fl.cellRowColumn, "cell-row-column", false, "Include numeric row and column of each cell")
	f.BoolVar(&fl.debug, "debug", false, "Enable debug logging and detailed errors")
	f.BoolVar(&fl.noCellData, "no-cell-data", false, "Omit cell data")
	f.BoolVar(&fl.noEncode, "no-encode", false, "Write non-ASCII characters unescaped")
	f.BoolVar(&fl.noIndent, "no-indent", false, "Write compact JSON")
	f.BoolVar(&fl.noProperties, "no-properties", false, "Omit workbook properties")
	f.BoolVar(&fl.objectFormat, "object-format", false, "Key sheets and cells by name instead of listing them")
	f.BoolVar(&fl.sheetInfo, "sheet-info", false, "Include sheet protection, visibility and view state")
	f.BoolVar(&fl.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func run(fs *pflag.FlagSet, fl *cliFlags, stdout, stderr io.Writer) error {
	if fl.noColor {
		color.NoColor = true
	}
	if fl.input == "" {
		return errors.New("no input file given")
	}

	cfg, err := config.Load(fl.configPath)
	if err != nil {
		return err
	}
	// Explicit flags win over config file and environment.
	if fs.Changed("locale") {
		cfg.Locale = fl.locale
	}
	if fs.Changed("no-indent") {
		cfg.Indent = !fl.noIndent
	}
	if fs.Changed("no-encode") {
		cfg.Encode = !fl.noEncode
	}
	if fs.Changed("object-format") {
		cfg.ObjectFormat = fl.objectFormat
	}

	level := slog.LevelInfo
	if fl.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	table, err := loadTable(cfg.OverridesFile)
	if err != nil {
		return err
	}

	opts := spreadsheet2json.DefaultOptions()
	opts.IncludeProperties = boolPtr(!fl.noProperties)
	opts.IncludeCellData = boolPtr(!fl.noCellData)
	opts.IncludeSheetInfo = fl.sheetInfo
	opts.IncludeCellFormat = fl.cellFormat
	opts.IncludeCellRowColumn = fl.cellRowColumn
	opts.ObjectShape = cfg.ObjectFormat
	opts.SheetFilter = spreadsheet2json.ParseSheetFilter(fl.sheets)
	if cfg.Locale != "" {
		opts.Locale = cfg.Locale
	}

	logger.Debug("converting", "input", fl.input, "locale", opts.EffectiveLocale())
	conv := spreadsheet2json.NewConverter(
		spreadsheet2json.WithTable(table),
		spreadsheet2json.WithLogger(logger),
	)
	doc, err := conv.ConvertFile(fl.input, opts)
	if err != nil {
		return err
	}

	outOpts := output.Options{Indent: cfg.Indent, EscapeNonASCII: cfg.Encode}
	if fl.output == "" {
		return output.Write(stdout, doc, outOpts)
	}

	// Encode before creating the file so a failure leaves no partial output.
	data, err := output.ToJSON(doc, outOpts)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(fl.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Debug("wrote output", "path", fl.output, "bytes", len(data))
	return nil
}

// loadTable merges the overrides file, if any, over the built-in table.
func loadTable(path string) (*numfmt.Table, error) {
	if path == "" {
		return numfmt.DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open overrides: %w", err)
	}
	defer f.Close()

	extra, err := numfmt.LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("load overrides %s: %w", path, err)
	}
	return numfmt.DefaultTable().With(extra)
}

// printError writes err in red. With debug set every layer of the
// wrapped chain follows with its dynamic type.
func printError(w io.Writer, err error, debug bool) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "Error: %v\n", err)
	if !debug {
		return
	}
	walkErrors(err, 1, func(depth int, e error) {
		fmt.Fprintf(w, "%*s%T: %v\n", depth*2, "", e, e)
	})
}

func walkErrors(err error, depth int, fn func(int, error)) {
	if err == nil {
		return
	}
	fn(depth, err)
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walkErrors(e, depth+1, fn)
		}
	case interface{ Unwrap() error }:
		walkErrors(u.Unwrap(), depth+1, fn)
	}
}

func boolPtr(b bool) *bool { return &b }

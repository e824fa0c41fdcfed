package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"tabproc/internal/config"
	"tabproc/internal/infrastructure"
	"tabproc/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		input       string
		output      string
		columns     string
		filter      string
		sortColumn  string
		descending  bool
		dedupe      bool
		dedupeCols  string
		fillMissing string
		fillValue   string
		info        bool
		delimiter   string
		encoding    string
		format      string
	)

	flag.StringVar(&input, "input", "", "input CSV file path")
	flag.StringVar(&input, "i", "", "shorthand for -input")
	flag.StringVar(&output, "output", "", "output file path (.csv, .xlsx or .json)")
	flag.StringVar(&output, "o", "", "shorthand for -output")
	flag.StringVar(&columns, "columns", "", "comma-separated columns to keep")
	flag.StringVar(&columns, "c", "", "shorthand for -columns")
	flag.StringVar(&filter, "filter", "", "row filter expression, e.g. 'age > 18 and city == \"NY\"'")
	flag.StringVar(&filter, "f", "", "shorthand for -filter")
	flag.StringVar(&sortColumn, "sort", "", "column to sort by")
	flag.BoolVar(&descending, "descending", false, "sort in descending order")
	flag.BoolVar(&dedupe, "remove-duplicates", false, "remove duplicate rows")
	flag.StringVar(&dedupeCols, "duplicate-columns", "", "comma-separated columns that define a duplicate (default: all)")
	flag.StringVar(&fillMissing, "fill-missing", "", "missing value handling: drop | fill")
	flag.StringVar(&fillValue, "fill-value", "", "value used when -fill-missing=fill")
	flag.BoolVar(&info, "info", false, "print dataset information and exit")
	flag.StringVar(&delimiter, "delimiter", "", "input field delimiter (default from config)")
	flag.StringVar(&encoding, "encoding", "", "input character encoding (default from config)")
	flag.StringVar(&format, "format", "", "output format override: csv | xlsx | json")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		return 2
	}
	if output == "" && !info {
		fmt.Fprintln(os.Stderr, "Error: -output is required unless -info is set")
		flag.Usage()
		return 2
	}

	if delimiter == "" {
		delimiter = cfg.Processing.Delimiter
	}
	if encoding == "" {
		encoding = cfg.Processing.Encoding
	}
	if fillMissing == "fill" && fillValue == "" {
		fillValue = cfg.Processing.FillValue
	}

	delim, size := utf8.DecodeRuneInString(delimiter)
	if delim == utf8.RuneError || size != len(delimiter) {
		fmt.Fprintf(os.Stderr, "Error: delimiter must be a single character, got %q\n", delimiter)
		return 2
	}

	opts := pipeline.Options{
		InputPath:      input,
		OutputPath:     output,
		Format:         format,
		Columns:        columns,
		Filter:         filter,
		Dedupe:         dedupe,
		DedupeColumns:  dedupeCols,
		MissingMode:    fillMissing,
		FillValue:      fillValue,
		SortColumn:     sortColumn,
		SortDescending: descending,
		Delimiter:      delim,
		Encoding:       encoding,
		InfoOnly:       info,
	}

	driver, err := pipeline.NewDriver(opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if _, err := driver.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

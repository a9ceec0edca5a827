// Command nameplates renders a list of names into a foldable-nameplate PDF:
// one A4 page per name, the name and logo repeated upside-down below the
// fold so the plate reads correctly from both sides.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"nameplatekit/nameplate"
	"nameplatekit/observability"
)

type options struct {
	namesPath  string
	logoPath   string
	fontPath   string
	outputPath string
	configPath string
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "nameplates: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "nameplates: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: nameplates [flags] <names_file> <logo_image> <font_file>\n")
		flag.PrintDefaults()
	}
	output := flag.String("output", "nameplates.pdf", "Output PDF path")
	flag.StringVar(output, "o", "nameplates.pdf", "Output PDF path (shorthand)")
	configPath := flag.String("config", "", "Optional YAML geometry override file")
	verbose := flag.Bool("v", false, "Log progress to stderr")
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		return options{}, fmt.Errorf("expected <names_file> <logo_image> <font_file>")
	}
	opts.namesPath = flag.Arg(0)
	opts.logoPath = flag.Arg(1)
	opts.fontPath = flag.Arg(2)
	opts.outputPath = *output
	opts.configPath = *configPath
	opts.verbose = *verbose
	return opts, nil
}

func run(opts options) error {
	var log observability.Logger = observability.NopLogger{}
	if opts.verbose {
		log = observability.NewTextLogger(os.Stderr)
	}

	cfg := nameplate.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := nameplate.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	names, err := nameplate.ReadNamesFile(opts.namesPath)
	if err != nil {
		return err
	}
	log.Info("names loaded",
		observability.String("input", opts.namesPath),
		observability.Int("count", len(names)))

	gen := nameplate.NewGenerator(cfg, log)
	if err := gen.LoadAssets(opts.fontPath, opts.logoPath); err != nil {
		return err
	}
	return gen.Generate(context.Background(), names, opts.outputPath)
}

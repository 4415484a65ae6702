// Package main implements a translator from Nand2Tetris VM code to Hack
// assembly.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"vm2hack/internal/codewriter"
	"vm2hack/internal/config"
	"vm2hack/internal/fileprocessor"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string

	debug bool
	quiet bool
}

func main() {
	options := readArguments()
	logger := config.CreateLogger(options.debug, options.quiet)
	if !options.quiet {
		fmt.Printf("vm2hack - VM to Hack assembly translator\nversion: %s\n\n",
			buildinfo.Version(version, commit, date))
	}

	if err := translate(logger, options); err != nil {
		logger.Fatal("Translation failed", log.Err(err))
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.output, "o", "", "name of the output .asm file, derived from the input path if not given")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&options.debug, "debug", false, "enable debug logging")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) != 1 {
		fmt.Printf("usage: vm2hack [options] <.vm file or directory>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]
	if options.output == "" {
		options.output = fileprocessor.OutputFilename(options.input)
	}
	return options
}

// translate runs the whole program through the code generator in memory
// first and only then writes the output file, so a failed run leaves no
// partial artifact behind.
func translate(logger *log.Logger, options optionFlags) error {
	files, err := fileprocessor.CollectFiles(options.input)
	if err != nil {
		return err
	}
	files = fileprocessor.OrderEntryFirst(files)
	for _, file := range files {
		logger.Debug("Translating", log.String("file", file))
	}

	units, err := fileprocessor.LoadUnits(files)
	if err != nil {
		return err
	}

	program := fileprocessor.UnitName(options.output)
	assembly, err := codewriter.Translate(units, program)
	if err != nil {
		return err
	}

	if err := os.WriteFile(options.output, []byte(assembly), 0o644); err != nil {
		return fmt.Errorf("writing output file '%s': %w", options.output, err)
	}
	logger.Info("Translation done",
		log.Int("units", len(units)),
		log.String("output", options.output))
	return nil
}

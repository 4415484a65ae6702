// Package fileprocessor discovers VM source files, orders them and turns
// raw source text into cleaned command lines for translation.
package fileprocessor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vm2hack/internal/codewriter"
)

const (
	vmExtension = ".vm"
	entryStem   = "Sys"
	comment     = "//"
)

// CleanSource strips comments and blank lines from raw VM source and
// trims every remaining line, yielding the ordered command sequence the
// translator consumes.
func CleanSource(source string) []string {
	var commands []string
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, comment) {
			continue
		}
		if i := strings.Index(line, comment); i >= 0 {
			line = strings.TrimSpace(line[:i])
			if line == "" {
				continue
			}
		}
		commands = append(commands, line)
	}
	return commands
}

// CollectFiles returns the .vm files reachable from path: the file itself,
// or every .vm file under a directory, recursively.
func CollectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if filepath.Ext(path) != vmExtension {
			return nil, fmt.Errorf("not a %s file: %s", vmExtension, path)
		}
		return []string{path}, nil
	}
	var files []string
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && filepath.Ext(p) == vmExtension {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no " + vmExtension + " files found under " + path)
	}
	return files, nil
}

// OrderEntryFirst moves the entry unit's file (stem Sys) to the front so
// the bootstrap and its unit are translated before everything else.
func OrderEntryFirst(files []string) []string {
	for i, file := range files {
		if UnitName(file) == entryStem {
			ordered := make([]string, 0, len(files))
			ordered = append(ordered, file)
			ordered = append(ordered, files[:i]...)
			return append(ordered, files[i+1:]...)
		}
	}
	return files
}

// UnitName is the file stem, used for static addressing.
func UnitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadUnits reads and cleans every file into a translation unit.
func LoadUnits(files []string) ([]codewriter.Unit, error) {
	units := make([]codewriter.Unit, 0, len(files))
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		name := UnitName(file)
		units = append(units, codewriter.Unit{
			Name:     name,
			Commands: CleanSource(string(source)),
			IsEntry:  name == entryStem,
		})
	}
	return units, nil
}

// OutputFilename derives the .asm output path from the input file or
// directory path.
func OutputFilename(input string) string {
	input = filepath.Clean(input)
	ext := filepath.Ext(input)
	if ext == vmExtension {
		return strings.TrimSuffix(input, ext) + ".asm"
	}
	return input + ".asm"
}

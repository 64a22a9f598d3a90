package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// readSeeds parses one URL per line. Blank lines and lines starting with #
// are ignored.
func readSeeds(r io.Reader) ([]string, error) {
	var seeds []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seeds, nil
}

// collectSeeds merges positional URLs with the contents of an input file.
// "-" reads from stdin.
func collectSeeds(args []string, input string) ([]string, error) {
	seeds := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			seeds = append(seeds, a)
		}
	}

	if input == "" {
		return seeds, nil
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	fromFile, err := readSeeds(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return append(seeds, fromFile...), nil
}

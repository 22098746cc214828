// Package regions loads and validates named genome region files used to
// stratify benchmarking statistics.
package regions

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfName is the reserved region name for the confident-call region.
const ConfName = "CONF"

// DuplicateRegionError reports a stratification region name that is
// registered more than once (including a collision with CONF).
type DuplicateRegionError struct {
	Name string
}

func (e *DuplicateRegionError) Error() string {
	return fmt.Sprintf("duplicate stratification region ID: %s", e.Name)
}

// MissingFileError reports a region file that does not exist on disk.
type MissingFileError struct {
	Name string
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("region file for %s not found: %s", e.Name, e.Path)
}

// Build validates and assembles the region set for a run.
//
// confPath, when non-empty, must exist and is registered under CONF.
// stratTSV, when non-empty, is a tab-separated list of (name, path) lines;
// paths that do not exist as given are retried relative to the list's own
// directory. Names must be unique across both sources.
func Build(confPath, stratTSV string) (map[string]string, error) {
	set := make(map[string]string)

	if confPath != "" {
		if _, err := os.Stat(confPath); err != nil {
			return nil, &MissingFileError{Name: ConfName, Path: confPath}
		}
		set[ConfName] = confPath
	}

	if stratTSV == "" {
		return set, nil
	}

	f, err := os.Open(stratTSV)
	if err != nil {
		return nil, fmt.Errorf("open stratification list: %w", err)
	}
	defer f.Close()

	stratDir, err := filepath.Abs(filepath.Dir(stratTSV))
	if err != nil {
		return nil, fmt.Errorf("resolve stratification directory: %w", err)
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, path, _ := strings.Cut(line, "\t")
		if _, ok := set[name]; ok {
			return nil, &DuplicateRegionError{Name: name}
		}

		if _, err := os.Stat(path); err != nil {
			path = filepath.Join(stratDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, &MissingFileError{Name: name, Path: path}
		}

		set[name] = path
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stratification list: %w", err)
	}

	return set, nil
}

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsWorkloadFile reports whether a file name looks like a SQL script
func IsWorkloadFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".sql")
}

// Discover recursively finds all SQL files under rootPath. A path naming a
// single file is returned as is.
func Discover(rootPath string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return []DiscoveredFile{{
			Path:         absRoot,
			RelativePath: filepath.Base(absRoot),
			ModTime:      info.ModTime(),
		}}, nil
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !IsWorkloadFile(info.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, DiscoveredFile{
			Path:         path,
			RelativePath: relPath,
			ModTime:      info.ModTime(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

// LoadStatements reads a workload file and splits it into statements
func LoadStatements(file *DiscoveredFile) ([]Statement, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.RelativePath, err)
	}
	return SplitFile(file.RelativePath, string(data)), nil
}

// LoadAll discovers the workload files under rootPath and loads all of their
// statements in file order
func LoadAll(rootPath string) ([]Statement, error) {
	files, err := Discover(rootPath)
	if err != nil {
		return nil, err
	}
	var statements []Statement
	for i := range files {
		stmts, err := LoadStatements(&files[i])
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmts...)
	}
	return statements, nil
}

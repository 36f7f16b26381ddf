package workload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store handles persistence of workload summaries
type Store struct {
	filePath string
}

// NewStore creates a new workload store
func NewStore(filePath string) *Store {
	return &Store{
		filePath: filePath,
	}
}

// Save writes the summary to disk as JSON
func (s *Store) Save(summary *Summary) error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workload summary: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write workload file: %w", err)
	}

	return nil
}

// Load reads a summary from disk
func (s *Store) Load() (*Summary, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("workload file not found: %s", s.filePath)
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workload file: %w", err)
	}

	summary := NewSummary()
	if err := json.Unmarshal(data, summary); err != nil {
		return nil, fmt.Errorf("failed to parse workload file: %w", err)
	}

	return summary, nil
}

// Exists checks if the workload file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Delete removes the workload file
func (s *Store) Delete() error {
	if !s.Exists() {
		return nil
	}
	return os.Remove(s.filePath)
}

// Path returns the file path where the summary is stored
func (s *Store) Path() string {
	return s.filePath
}

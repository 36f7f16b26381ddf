package discovery

import "time"

// DiscoveredFile represents a SQL workload file found during filesystem traversal
type DiscoveredFile struct {
	Path         string    // Absolute path to file
	RelativePath string    // Path relative to search root
	ModTime      time.Time // Last modification time
}

// Statement is one statement of a workload file
type Statement struct {
	File   string // Relative path of the file
	Line   int    // 1-based line where the statement starts
	Column int    // 1-based column where the statement starts
	Offset int    // Byte offset of the statement in the file
	Text   string
}

// Position maps a byte offset inside the statement onto a file line and column
func (s Statement) Position(offset int) (line, column int) {
	line, column = s.Line, s.Column
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	for _, r := range s.Text[:max(offset, 0)] {
		if r == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}

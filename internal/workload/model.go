package workload

import (
	"sort"
	"time"

	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// Summary represents the aggregated pre-parse results of a workload
type Summary struct {
	Version    string    `json:"version"`   // Schema version (e.g., "1.0")
	Timestamp  time.Time `json:"timestamp"` // When the workload was checked
	Statements int       `json:"statements"`
	Rewritten  int       `json:"rewritten"`
	Failed     int       `json:"failed"`
	Cancelled  int       `json:"cancelled"`
	Cached     int       `json:"cached"` // Outcomes served from the statement cache

	Types      map[string]int `json:"types"` // Key: statement type name
	Literals   int            `json:"literals"`
	UserParams int            `json:"user_params"`
	Defaults   int            `json:"defaults"`

	Shapes   map[string]*Shape `json:"shapes"` // Key: rewritten statement text
	Failures []Failure         `json:"failures,omitempty"`
}

// Shape is one distinct rewritten statement text
type Shape struct {
	Text          string                  `json:"text"`
	Type          preparser.StatementType `json:"type"`
	Count         int                     `json:"count"`
	ParamInfo     string                  `json:"param_info"`
	CacheOnServer bool                    `json:"cache_on_server"`
	Files         []string                `json:"files"` // Sorted, without duplicates
}

// Failure is a statement the pre-parser rejected
type Failure struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// NewSummary creates an empty Summary
func NewSummary() *Summary {
	return &Summary{
		Version:   "1.0",
		Timestamp: time.Now(),
		Types:     make(map[string]int),
		Shapes:    make(map[string]*Shape),
	}
}

// RewritePercent returns the share of statements that were pre-parsed
func (s *Summary) RewritePercent() float64 {
	if s.Statements == 0 {
		return 0.0
	}
	return float64(s.Rewritten) / float64(s.Statements) * 100.0
}

// SortedShapes returns the shapes ordered by descending count, then text
func (s *Summary) SortedShapes() []*Shape {
	shapes := make([]*Shape, 0, len(s.Shapes))
	for _, sh := range s.Shapes {
		shapes = append(shapes, sh)
	}
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Count != shapes[j].Count {
			return shapes[i].Count > shapes[j].Count
		}
		return shapes[i].Text < shapes[j].Text
	})
	return shapes
}

// TypeNames returns the statement type names seen, sorted
func (s *Summary) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sh *Shape) addFile(file string) {
	i := sort.SearchStrings(sh.Files, file)
	if i < len(sh.Files) && sh.Files[i] == file {
		return
	}
	sh.Files = append(sh.Files, "")
	copy(sh.Files[i+1:], sh.Files[i:])
	sh.Files[i] = file
}

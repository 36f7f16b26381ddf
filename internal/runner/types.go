package runner

import (
	"time"

	"github.com/cybertec-postgresql/sqlpreparse/internal/discovery"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// Outcome represents the pre-parse of a single workload statement
type Outcome struct {
	Statement     *discovery.Statement
	Result        preparser.Result
	ParamInfo     preparser.ParamInfo
	CacheOnServer bool
	Cached        bool // served from the shared cache
	StartTime     time.Time
	EndTime       time.Time
	Status        OutcomeStatus
	Error         error // Non-nil if the statement was rejected
}

// OutcomeStatus represents the state of a statement in the workload
type OutcomeStatus int

const (
	OutcomePending OutcomeStatus = iota
	OutcomeRewritten
	OutcomeFailed
	OutcomeCancelled
)

// String returns a string representation of OutcomeStatus
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomePending:
		return "pending"
	case OutcomeRewritten:
		return "rewritten"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Duration returns the pre-parse duration
func (o *Outcome) Duration() time.Duration {
	if o.EndTime.IsZero() {
		return time.Since(o.StartTime)
	}
	return o.EndTime.Sub(o.StartTime)
}

// Count returns the number of placeholders carrying the given format tag
func (o *Outcome) Count(format byte) int {
	n := 0
	for _, p := range o.ParamInfo.Params {
		if p.Format == format {
			n++
		}
	}
	return n
}

// RunSummary summarizes a workload run
type RunSummary struct {
	Total         int
	Rewritten     int
	Failed        int
	Cancelled     int
	Cached        int
	TotalDuration time.Duration
}

// SummarizeOutcomes counts the outcomes of a run
func SummarizeOutcomes(outcomes []*Outcome) RunSummary {
	var s RunSummary
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		s.Total++
		switch o.Status {
		case OutcomeRewritten:
			s.Rewritten++
		case OutcomeFailed:
			s.Failed++
		case OutcomeCancelled:
			s.Cancelled++
		}
		if o.Cached {
			s.Cached++
		}
		s.TotalDuration += o.Duration()
	}
	return s
}

// AllRewritten returns true if every statement was pre-parsed
func (s *RunSummary) AllRewritten() bool {
	return s.Failed == 0 && s.Cancelled == 0
}

// ExitCode returns the appropriate exit code based on the outcomes
func (s *RunSummary) ExitCode() int {
	if s.AllRewritten() {
		return 0
	}
	return 1
}

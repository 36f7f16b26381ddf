package workload

import (
	"context"
	"errors"

	"github.com/cybertec-postgresql/sqlpreparse/internal/discovery"
	preerrors "github.com/cybertec-postgresql/sqlpreparse/internal/errors"
	"github.com/cybertec-postgresql/sqlpreparse/internal/runner"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// Collector aggregates pre-parse outcomes into a Summary
type Collector struct {
	summary *Summary
}

// NewCollector creates a new workload collector
func NewCollector() *Collector {
	return &Collector{
		summary: NewSummary(),
	}
}

// CollectFromOutcomes adds every outcome of a run
func (c *Collector) CollectFromOutcomes(outcomes []*runner.Outcome) {
	for _, o := range outcomes {
		if o != nil {
			c.Add(o)
		}
	}
}

// Add adds a single outcome to the summary
func (c *Collector) Add(o *runner.Outcome) {
	s := c.summary
	s.Statements++
	if o.Cached {
		s.Cached++
	}

	switch o.Status {
	case runner.OutcomeRewritten:
		s.Rewritten++
	case runner.OutcomeFailed:
		s.Failed++
		s.Failures = append(s.Failures, failureOf(o))
		return
	default:
		s.Cancelled++
		return
	}

	s.Types[o.Result.Type.String()]++
	s.Literals += o.Count(preparser.FormatReplaced)
	s.UserParams += o.Count(preparser.FormatUser)
	s.Defaults += o.Count(preparser.FormatDefault)

	sh, exists := s.Shapes[o.Result.Text]
	if !exists {
		sh = &Shape{
			Text:          o.Result.Text,
			Type:          o.Result.Type,
			ParamInfo:     o.ParamInfo.String(),
			CacheOnServer: o.CacheOnServer,
		}
		s.Shapes[o.Result.Text] = sh
	}
	sh.Count++
	if o.Statement != nil {
		sh.addFile(o.Statement.File)
	}
}

func failureOf(o *runner.Outcome) Failure {
	var serr *preerrors.StatementError
	if errors.As(o.Error, &serr) {
		return Failure{File: serr.File, Line: serr.Line, Column: serr.Column, Message: serr.Message}
	}
	f := Failure{}
	if o.Error != nil {
		f.Message = o.Error.Error()
	}
	if st := o.Statement; st != nil {
		f.File, f.Line, f.Column = st.File, st.Line, st.Column
	}
	return f
}

// Summary returns the aggregated workload data
func (c *Collector) Summary() *Summary {
	return c.summary
}

// Reset clears all collected data
func (c *Collector) Reset() {
	c.summary = NewSummary()
}

// Merge merges another collector's data into this one
func (c *Collector) Merge(other *Collector) {
	s, o := c.summary, other.summary
	s.Statements += o.Statements
	s.Rewritten += o.Rewritten
	s.Failed += o.Failed
	s.Cancelled += o.Cancelled
	s.Cached += o.Cached
	s.Literals += o.Literals
	s.UserParams += o.UserParams
	s.Defaults += o.Defaults

	for name, n := range o.Types {
		s.Types[name] += n
	}
	for text, otherShape := range o.Shapes {
		sh, exists := s.Shapes[text]
		if !exists {
			sh = &Shape{
				Text:          otherShape.Text,
				Type:          otherShape.Type,
				ParamInfo:     otherShape.ParamInfo,
				CacheOnServer: otherShape.CacheOnServer,
			}
			s.Shapes[text] = sh
		}
		sh.Count += otherShape.Count
		for _, f := range otherShape.Files {
			sh.addFile(f)
		}
	}
	s.Failures = append(s.Failures, o.Failures...)
}

// Check pre-parses the statements of a workload and collects the outcomes
func Check(ctx context.Context, pool *runner.WorkerPool, statements []discovery.Statement) (*Collector, []*runner.Outcome) {
	outcomes := pool.ExecuteParallel(ctx, statements)
	c := NewCollector()
	c.CollectFromOutcomes(outcomes)
	return c, outcomes
}

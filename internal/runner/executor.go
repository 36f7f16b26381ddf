package runner

import (
	"context"
	"errors"
	"time"

	"github.com/cybertec-postgresql/sqlpreparse/internal/discovery"
	preerrors "github.com/cybertec-postgresql/sqlpreparse/internal/errors"
	"github.com/cybertec-postgresql/sqlpreparse/internal/logger"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// Executor pre-parses workload statements
type Executor struct {
	opts  preparser.Options
	cache *preparser.Cache
	log   *logger.Logger
}

// NewExecutor creates a new executor. A positive cacheSize shares a
// statement cache between all callers of the executor.
func NewExecutor(opts preparser.Options, cacheSize int, log *logger.Logger) (*Executor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default()
	}
	e := &Executor{opts: opts, log: log}
	if cacheSize > 0 {
		cache, err := preparser.NewCache(opts, cacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// NewPreParser returns a pre-parser configured like the executor. A
// PreParser must not be shared between goroutines.
func (e *Executor) NewPreParser() *preparser.PreParser {
	pp := preparser.New(e.opts)
	pp.SetLogger(e.log)
	return pp
}

// Execute pre-parses a single statement with pp
func (e *Executor) Execute(ctx context.Context, stmt *discovery.Statement, pp *preparser.PreParser) *Outcome {
	outcome := &Outcome{
		Statement: stmt,
		StartTime: time.Now(),
		Status:    OutcomePending,
	}
	defer func() { outcome.EndTime = time.Now() }()

	if err := ctx.Err(); err != nil {
		outcome.Status = OutcomeCancelled
		outcome.Error = err
		return outcome
	}

	if e.cache != nil {
		res, err := e.cache.PreParse(stmt.Text, nil)
		if err != nil {
			e.fail(outcome, err)
			return outcome
		}
		outcome.Result = res.Result
		outcome.ParamInfo = res.ParamInfo
		outcome.CacheOnServer = res.CacheOnServer
		outcome.Cached = res.Cached
	} else {
		res, err := pp.PreParse(stmt.Text, nil)
		if err != nil {
			e.fail(outcome, err)
			return outcome
		}
		outcome.Result = res
		outcome.ParamInfo = pp.ParamInfo()
		outcome.CacheOnServer = pp.CacheOnServer()
	}
	outcome.Status = OutcomeRewritten
	return outcome
}

// cancelled returns the outcome of a statement that was never pre-parsed
func cancelled(stmt *discovery.Statement, err error) *Outcome {
	now := time.Now()
	return &Outcome{
		Statement: stmt,
		StartTime: now,
		EndTime:   now,
		Status:    OutcomeCancelled,
		Error:     err,
	}
}

func (e *Executor) fail(outcome *Outcome, err error) {
	outcome.Status = OutcomeFailed
	outcome.Error = statementError(outcome.Statement, err)
	e.log.Debug("%v", outcome.Error)
}

// statementError places a pre-parser error at its position in the workload file
func statementError(stmt *discovery.Statement, err error) error {
	var perr *preparser.ParseError
	if !errors.As(err, &perr) {
		return err
	}
	line, column := stmt.Position(perr.Pos)
	msg := perr.Kind.String() + ": " + perr.Message
	if perr.Lexeme != "" {
		msg += " near " + quote(perr.Lexeme)
	}
	return preerrors.NewStatementError(stmt.File, line, column, msg)
}

func quote(s string) string {
	const limit = 32
	if r := []rune(s); len(r) > limit {
		s = string(r[:limit]) + "..."
	}
	return `"` + s + `"`
}

// ExecuteBatch pre-parses statements sequentially with one pre-parser
func (e *Executor) ExecuteBatch(ctx context.Context, statements []discovery.Statement) []*Outcome {
	pp := e.NewPreParser()
	outcomes := make([]*Outcome, 0, len(statements))
	for i := range statements {
		outcome := e.Execute(ctx, &statements[i], pp)
		if outcome.Status == OutcomeFailed {
			e.log.Debug("Statement failed: %s:%d", statements[i].File, statements[i].Line)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// Package preparser rewrites SQL statements on the client before they are
// sent to the server.
//
// A statement is scanned into tokens, classified, and every literal constant
// in a substitutable position is replaced by a bind parameter, so that the
// statement text stays the same across executions with different values.
// All placeholders (?, @name, extracted literals) are renumbered to the
// server's :%qpar(N) form, and a ParamInfo descriptor records how each one is
// bound.
//
//	pp := preparser.New(preparser.DefaultOptions())
//	params := preparser.NewParameterList()
//	res, err := pp.PreParse("SELECT * FROM t WHERE x = 42", params)
//	// res.Text == "SELECT * FROM t WHERE x = :%qpar(1)"
//	// params.At(0).Value == "42"
package preparser

import (
	"fmt"

	"github.com/cybertec-postgresql/sqlpreparse/internal/logger"
)

// Options configures a PreParser.
type Options struct {
	// DelimitedIdentifiers treats "..." as an identifier instead of a string.
	DelimitedIdentifiers bool `yaml:"delimited_identifiers" json:"delimited_identifiers"`

	// BracketSubstitution scans [name] as a delimited identifier.
	BracketSubstitution bool `yaml:"bracket_substitution" json:"bracket_substitution"`

	// AddRowID injects row-ID projections: 0 off, 1 %ID after SELECT,
	// 2 additionally %IDADDED after ORDER BY.
	AddRowID int `yaml:"add_row_id" json:"add_row_id"`
}

// DefaultOptions returns the options used by the driver by default.
func DefaultOptions() Options {
	return Options{DelimitedIdentifiers: true}
}

// Validate checks the option values.
func (o Options) Validate() error {
	if o.AddRowID < 0 || o.AddRowID > 2 {
		return fmt.Errorf("add_row_id must be 0, 1 or 2, got %d", o.AddRowID)
	}
	return nil
}

// Result is the outcome of PreParse.
type Result struct {
	Text string
	Type StatementType
}

// PreParser rewrites statements. The per-call outputs (ParamInfo,
// CacheOnServer, UserIndex) describe the most recent PreParse call.
//
// A PreParser must not be used by several goroutines at once; give every
// goroutine its own instance or use a Cache.
type PreParser struct {
	opts Options
	log  *logger.Logger

	cacheOnServer bool
	paramInfo     ParamInfo
	userIndex     []int
}

// New creates a PreParser with the given options.
func New(opts Options) *PreParser {
	return &PreParser{opts: opts, log: logger.Default()}
}

// SetLogger replaces the logger used for debug tracing.
func (p *PreParser) SetLogger(l *logger.Logger) { p.log = l }

// Options returns the configuration of p.
func (p *PreParser) Options() Options { return p.opts }

// ParamInfo returns the parameter descriptor of the last statement.
func (p *PreParser) ParamInfo() ParamInfo { return p.paramInfo }

// CacheOnServer reports whether the last statement may be cached by the
// server.
func (p *PreParser) CacheOnServer() bool { return p.cacheOnServer }

// UserIndex returns the ordinals, 0-based, of the placeholders whose values
// the application supplies.
func (p *PreParser) UserIndex() []int { return p.userIndex }

// PreParse rewrites query and aligns params with its placeholders. params may
// hold parameters bound by the application. On error params is left as it
// was before the call.
func (p *PreParser) PreParse(query string, params *ParameterList) (Result, error) {
	p.cacheOnServer = false
	p.paramInfo = ParamInfo{}
	p.userIndex = nil
	if params == nil {
		params = NewParameterList()
	}
	snap := params.snapshot()

	text := p.rewriteWith(query)
	r, err := newResolver(text, p.opts, params)
	if err == nil {
		var res Result
		if res, err = r.resolve(); err == nil {
			p.cacheOnServer = r.cacheOnServer
			p.paramInfo = r.info
			p.userIndex = r.userIndex
			return res, nil
		}
	}
	params.restore(snap)
	p.log.Debug("pre-parse failed for %q: %v", query, err)
	return Result{}, err
}

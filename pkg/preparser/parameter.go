package preparser

import (
	"fmt"
	"strings"
)

// ParameterMode describes the direction of a bind parameter.
type ParameterMode int

const (
	ModeInput ParameterMode = iota
	ModeInputOutput
	ModeReturnValue
	ModeReplacedLiteral
	ModeDefaultParameter
	ModeUnknown
)

// String returns a string representation of ParameterMode
func (m ParameterMode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeInputOutput:
		return "input-output"
	case ModeReturnValue:
		return "return-value"
	case ModeReplacedLiteral:
		return "replaced-literal"
	case ModeDefaultParameter:
		return "default"
	default:
		return "unknown"
	}
}

// SQLType is the server type tag of a parameter value.
type SQLType int

const (
	SQLTypeUnknown SQLType = iota
	SQLTypeVarchar
	SQLTypeNumeric
	SQLTypeBinary
)

// Format tags carried in ParamInfo.
const (
	FormatUser     byte = '?' // value supplied by the application
	FormatReplaced byte = 'c' // literal extracted from the statement text
	FormatDefault  byte = 'd' // elided routine argument
)

// Parameter is one bind variable sent with the rewritten statement.
type Parameter struct {
	Value     any
	Mode      ParameterMode
	Format    byte
	Cast      CastFormat
	Name      string // "@name" for named parameters
	ExecParam bool   // created from an EXEC argument
	SQLType   SQLType

	// Matched holds the clones created for repeated uses of a named
	// parameter. The application binds the original; the driver copies the
	// value into every clone.
	Matched []*Parameter

	parserMatched bool
	generated     bool
}

func newReplacedLiteral(value any, cast CastFormat) *Parameter {
	return &Parameter{
		Value:     value,
		Mode:      ModeReplacedLiteral,
		Format:    FormatReplaced,
		Cast:      cast,
		generated: true,
	}
}

func newDefaultParameter() *Parameter {
	return &Parameter{Mode: ModeDefaultParameter, Format: FormatDefault, generated: true}
}

// Generated reports whether the parser created the parameter from statement
// text rather than the application supplying it.
func (p *Parameter) Generated() bool { return p.generated }

// Clone returns a deep copy of p.
func (p *Parameter) Clone() *Parameter {
	c := *p
	if b, ok := p.Value.([]byte); ok {
		c.Value = append([]byte(nil), b...)
	}
	if len(p.Matched) > 0 {
		c.Matched = make([]*Parameter, len(p.Matched))
		for i, m := range p.Matched {
			c.Matched[i] = m.Clone()
		}
	}
	return &c
}

func (p *Parameter) String() string {
	name := p.Name
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("%s(%s %v)", name, p.Mode, p.Value)
}

// ParameterList is the ordered, mutable parameter collection owned by the
// caller. The pre-parser inserts, reorders and reads entries so that entry i
// always describes the i-th placeholder of the rewritten statement.
type ParameterList struct {
	params []*Parameter
}

// NewParameterList returns a list holding params in order.
func NewParameterList(params ...*Parameter) *ParameterList {
	return &ParameterList{params: append([]*Parameter(nil), params...)}
}

// Len returns the number of parameters.
func (l *ParameterList) Len() int { return len(l.params) }

// At returns the parameter at index i, or nil when out of range.
func (l *ParameterList) At(i int) *Parameter {
	if i < 0 || i >= len(l.params) {
		return nil
	}
	return l.params[i]
}

// Params returns the underlying slice.
func (l *ParameterList) Params() []*Parameter { return l.params }

// Append adds p at the end.
func (l *ParameterList) Append(p *Parameter) { l.params = append(l.params, p) }

// Insert places p at index i. An index past the end appends.
func (l *ParameterList) Insert(i int, p *Parameter) {
	if i >= len(l.params) {
		l.params = append(l.params, p)
		return
	}
	l.params = append(l.params, nil)
	copy(l.params[i+1:], l.params[i:])
	l.params[i] = p
}

// Remove deletes the parameter at index i.
func (l *ParameterList) Remove(i int) {
	l.params = append(l.params[:i], l.params[i+1:]...)
}

// IndexByName finds a parameter by name, ignoring case and an optional
// leading '@' on either side. It returns -1 when absent.
func (l *ParameterList) IndexByName(name string) int {
	want := strings.TrimPrefix(name, "@")
	for i, p := range l.params {
		if p.Name != "" && strings.EqualFold(strings.TrimPrefix(p.Name, "@"), want) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the list. Matched links between entries of
// the list point at the copies.
func (l *ParameterList) Clone() *ParameterList {
	return &ParameterList{params: cloneParams(l.params)}
}

func cloneParams(src []*Parameter) []*Parameter {
	out := make([]*Parameter, len(src))
	copies := make(map[*Parameter]*Parameter, len(src))
	for i, p := range src {
		c := *p
		if b, ok := p.Value.([]byte); ok {
			c.Value = append([]byte(nil), b...)
		}
		out[i] = &c
		copies[p] = &c
	}
	for _, c := range out {
		if len(c.Matched) == 0 {
			continue
		}
		matched := make([]*Parameter, len(c.Matched))
		for j, m := range c.Matched {
			if mc, ok := copies[m]; ok {
				matched[j] = mc
			} else {
				matched[j] = m.Clone()
			}
		}
		c.Matched = matched
	}
	return out
}

// parameterSnapshot records the list order and every entry's fields so a
// failed resolution can be undone without changing pointer identity.
type parameterSnapshot struct {
	params []*Parameter
	values []Parameter
}

func (l *ParameterList) snapshot() parameterSnapshot {
	s := parameterSnapshot{
		params: append([]*Parameter(nil), l.params...),
		values: make([]Parameter, len(l.params)),
	}
	for i, p := range l.params {
		s.values[i] = *p
		s.values[i].Matched = append([]*Parameter(nil), p.Matched...)
	}
	return s
}

func (l *ParameterList) restore(s parameterSnapshot) {
	l.params = append(l.params[:0:0], s.params...)
	for i, p := range l.params {
		*p = s.values[i]
	}
}

// reset drops everything a previous resolution generated and clears the
// matching bookkeeping, so the same list can be resolved again.
func (l *ParameterList) reset() {
	kept := l.params[:0]
	for _, p := range l.params {
		if p.generated {
			continue
		}
		p.parserMatched = false
		p.Matched = nil
		kept = append(kept, p)
	}
	for i := len(kept); i < len(l.params); i++ {
		l.params[i] = nil
	}
	l.params = kept
}

// matchUpParam binds the named placeholder at ordinal to an existing
// parameter of the same name. A parameter found elsewhere is moved to the
// ordinal, unless an earlier placeholder already claimed it, in which case a
// clone is inserted and linked from the original.
func matchUpParam(l *ParameterList, name string, ordinal int) bool {
	idx := l.IndexByName(name)
	if idx < 0 {
		return false
	}
	p := l.params[idx]
	switch {
	case idx == ordinal:
		p.parserMatched = true
	case !p.parserMatched:
		l.Remove(idx)
		l.Insert(ordinal, p)
		p.parserMatched = true
	default:
		c := *p
		c.Name = fmt.Sprintf("%s#%d", p.Name, ordinal)
		c.Matched = nil
		c.parserMatched = true
		c.generated = true
		l.Insert(ordinal, &c)
		p.Matched = append(p.Matched, &c)
	}
	return true
}

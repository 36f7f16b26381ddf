package preparser

// StatementType classifies a pre-parsed statement for the driver.
type StatementType int

const (
	StmtUpdate StatementType = iota
	StmtQuery
	StmtCall
	StmtSyncCommit
	StmtAsyncCommit
	StmtStreamsOff
	StmtStreamsOn
	StmtCallWithResult
	StmtDdlAlterDrop
	StmtDdlOther
	StmtDirectCallQuery
	StmtDirectCallUpdate
	StmtPreparedCallQuery
	StmtPreparedCallUpdate
	StmtSQLDialect
	StmtUse
)

var statementTypeNames = [...]string{
	StmtUpdate:             "Update",
	StmtQuery:              "Query",
	StmtCall:               "Call",
	StmtSyncCommit:         "SyncCommit",
	StmtAsyncCommit:        "AsyncCommit",
	StmtStreamsOff:         "StreamsOff",
	StmtStreamsOn:          "StreamsOn",
	StmtCallWithResult:     "CallWithResult",
	StmtDdlAlterDrop:       "DdlAlterDrop",
	StmtDdlOther:           "DdlOther",
	StmtDirectCallQuery:    "DirectCallQuery",
	StmtDirectCallUpdate:   "DirectCallUpdate",
	StmtPreparedCallQuery:  "PreparedCallQuery",
	StmtPreparedCallUpdate: "PreparedCallUpdate",
	StmtSQLDialect:         "SqlDialect",
	StmtUse:                "Use",
}

// String returns a string representation of StatementType
func (t StatementType) String() string {
	if t >= 0 && int(t) < len(statementTypeNames) {
		return statementTypeNames[t]
	}
	return "Unknown"
}

// ParseStatementType is the inverse of StatementType.String.
func ParseStatementType(s string) (StatementType, bool) {
	for i, name := range statementTypeNames {
		if name == s {
			return StatementType(i), true
		}
	}
	return StmtUpdate, false
}

// MarshalText implements encoding.TextMarshaler.
func (t StatementType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *StatementType) UnmarshalText(b []byte) error {
	v, ok := ParseStatementType(string(b))
	if !ok {
		return &ParseError{Kind: InvalidSyntax, Pos: -1, Lexeme: string(b), Message: "unknown statement type"}
	}
	*t = v
	return nil
}

package preparser

// keywordKind maps an upper-cased identifier onto its token kind. Words not
// listed are plain identifiers.
func keywordKind(upper string) TokenKind {
	switch upper {
	case "AND", "OR", "BETWEEN", "LIKE", "IN", "STARTSWITH", "%STARTSWITH",
		"%MATCHES", "%PATTERN", "%CONTAINS", "%CONTAINSTERM", "%FOLLOWS", "%INLIST":
		return TokenOp
	case "CHAR", "CHARACTER", "VARCHAR", "NCHAR", "NVARCHAR", "NUMERIC", "DECIMAL",
		"DEC", "BINARY", "VARBINARY", "FLOAT", "DOUBLE":
		return TokenDatatype
	case "NOT", "_":
		// "_" is a historical alias of NOT.
		return TokenNot
	case "NULL":
		return TokenNull
	case "IS":
		return TokenIs
	case "THEN":
		return TokenThen
	case "ELSE":
		return TokenElse
	case "%SQLUPPER", "%STRING", "%SQLSTRING", "%TRUNCATE", "TRUNCATE", "%EXACT", "%UPPER":
		return TokenStrFunction
	}
	return TokenId
}

// isNotPredicate reports whether word combines with a preceding NOT.
func isNotPredicate(word string) bool {
	switch word {
	case "LIKE", "IN", "BETWEEN", "EXISTS", "STARTSWITH", "%STARTSWITH",
		"%MATCHES", "%PATTERN", "%CONTAINS", "%CONTAINSTERM", "%FOLLOWS", "%INLIST":
		return true
	}
	return false
}

// dmlStatementType classifies statements whose literals are substituted.
func dmlStatementType(upper string) (StatementType, bool) {
	switch upper {
	case "SELECT":
		return StmtQuery, true
	case "INSERT", "DELETE", "UPDATE":
		return StmtUpdate, true
	}
	return StmtUpdate, false
}

// ddlStatementType classifies statements copied through without substitution.
func ddlStatementType(upper string) (StatementType, bool) {
	switch upper {
	case "ALTER", "DROP":
		return StmtDdlAlterDrop, true
	case "CREATE", "GRANT", "REVOKE", "%CHECKPRIV", "TRAIN", "VALIDATE", "TUNE":
		return StmtDdlOther, true
	case "USE":
		return StmtUse, true
	}
	return StmtUpdate, false
}

// isReservedWord reports statement and clause keywords that cannot name a
// routine.
func isReservedWord(upper string) bool {
	switch upper {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "FROM", "WHERE", "INTO", "VALUES",
		"SET", "ORDER", "GROUP", "BY", "HAVING", "UNION", "JOIN", "ON", "AS", "WITH",
		"CALL", "EXEC", "EXECUTE", "DISTINCT", "TOP", "CASE", "WHEN", "END":
		return true
	}
	return false
}

func isTransactionKeyword(upper string) bool {
	switch upper {
	case "COMMIT", "ROLLBACK", "START", "%INTRANSACTION", "%INTRANS", "%BEGTRANS":
		return true
	}
	return false
}

// alwaysSubstituteAfter lists the words after which a parenthesised single
// constant is a value, not a function argument.
func alwaysSubstituteAfter(upper string) bool {
	switch upper {
	case "SELECT", "TOP", "WHERE", "ON", "AND", "OR", "NOT", "BETWEEN",
		"%STARTSWITH", "LIKE", "CASE", "WHEN", "ELSE", "THEN":
		return true
	}
	return false
}

// isKeywordArgumentFunction reports functions whose first argument is a
// keyword-like unit name rather than a literal.
func isKeywordArgumentFunction(upper string) bool {
	switch upper {
	case "DATEPART", "TIMESTAMPADD", "TIMESTAMPDIFF":
		return true
	}
	return false
}

// isEscapeKeyword reports the ODBC date/time escape keywords, {d ...} etc.
func isEscapeKeyword(upper string) bool {
	switch upper {
	case "D", "T", "TS":
		return true
	}
	return false
}

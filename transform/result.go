package transform

// Result is the wire shape spec.md §4.6/§6 names: `{success, oracleSql,
// postgresSql, errorMessage, astTree?}`. An HTTP host is expected to
// return this as an ordinary 200 payload even when Success is false —
// translation failure is a business outcome, not a protocol fault, so
// this type carries no error/exception value of its own.
type Result struct {
	Success      bool   `json:"success"`
	OracleSQL    string `json:"oracleSql"`
	PostgresSQL  string `json:"postgresSql,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	AstTree      string `json:"astTree,omitempty"`
}

func success(oracleSQL, postgresSQL, astTree string) Result {
	return Result{Success: true, OracleSQL: oracleSQL, PostgresSQL: postgresSQL, AstTree: astTree}
}

func failure(oracleSQL string, err error) Result {
	return Result{Success: false, OracleSQL: oracleSQL, ErrorMessage: err.Error()}
}

// Package parser implements the Oracle PL/SQL grammar front-end: a
// recursive-descent parser over sqlparser/oracle's token stream that
// produces a concrete parse tree for one of five entry productions.
//
// Rule names mirror the well-known ANTLR4 PL/SQL grammar's production
// names (tableview_name, subquery_basic_elements, ...) so the builder's
// dispatch in package ir reads the same vocabulary spec.md itself uses.
package parser

// RuleTag names a grammar production, used for parse-tree node
// identification, the ast_dump tree-printer, and syntax error rule
// stacks.
type RuleTag string

const (
	RuleSelectStatement           RuleTag = "select_statement"
	RuleSelectOnlyStatement       RuleTag = "select_only_statement"
	RuleSubquery                  RuleTag = "subquery"
	RuleSubqueryBasicElements     RuleTag = "subquery_basic_elements"
	RuleSubqueryOperationPart     RuleTag = "subquery_operation_part"
	RuleQueryBlock                RuleTag = "query_block"
	RuleSelectedList               RuleTag = "selected_list"
	RuleSelectListElement         RuleTag = "select_list_element"
	RuleFromClause                RuleTag = "from_clause"
	RuleTableRefList              RuleTag = "table_ref_list"
	RuleTableReference            RuleTag = "table_reference"
	RuleTableviewName             RuleTag = "tableview_name"
	RuleTableCollectionExpression RuleTag = "table_collection_expression"
	RuleWhereClause               RuleTag = "where_clause"
	RuleGroupByClause             RuleTag = "group_by_clause"
	RuleHavingClause              RuleTag = "having_clause"
	RuleOrderByClause             RuleTag = "order_by_clause"
	RuleWithFactoringClause       RuleTag = "with_factoring_clause"
	RuleSubqueryFactoringClause   RuleTag = "subquery_factoring_clause"
	RuleAnalyticViewClause        RuleTag = "analytic_view_clause"
	RuleForUpdateClause           RuleTag = "for_update_clause"

	RuleExpression          RuleTag = "expression"
	RuleLogicalExpression    RuleTag = "logical_expression"
	RuleUnaryLogicalExpr     RuleTag = "unary_logical_expression"
	RuleCompoundExpression   RuleTag = "compound_expression"
	RuleInElements           RuleTag = "in_elements"
	RuleBetweenElements      RuleTag = "between_elements"
	RuleLikeElements         RuleTag = "like_condition"
	RuleConcatenation        RuleTag = "concatenation"
	RuleUnaryExpression      RuleTag = "unary_expression"
	RuleAtom                RuleTag = "atom"
	RuleGeneralElement      RuleTag = "general_element"
	RuleConstant            RuleTag = "constant"
	RuleBindVariable        RuleTag = "bind_variable"
	RuleCursorAttribute     RuleTag = "cursor_attribute_expression"

	RuleFunctionBody   RuleTag = "function_body"
	RuleProcedureBody  RuleTag = "procedure_body"
	RulePackageSpec    RuleTag = "package_spec"
	RulePackageBody    RuleTag = "package_body"
	RuleBody           RuleTag = "body"
	RuleSeqOfStatements RuleTag = "seq_of_statements"
	RuleVariableDeclaration RuleTag = "variable_declaration"
	RuleTypeDeclaration     RuleTag = "type_declaration"
	RuleCursorDeclaration   RuleTag = "cursor_declaration"
	RuleAssignmentStatement RuleTag = "assignment_statement"
	RuleCallStatement       RuleTag = "call_statement"
	RuleRaiseStatement      RuleTag = "raise_statement"
	RuleFetchStatement      RuleTag = "fetch_statement"
	RuleOpenStatement       RuleTag = "open_statement"
	RuleCloseStatement      RuleTag = "close_statement"
	RuleReturnStatement     RuleTag = "return_statement"
	RuleNullStatement       RuleTag = "null_statement"
	RuleIfStatement         RuleTag = "if_statement"
	RuleLoopStatement       RuleTag = "loop_statement"

	RuleTypeSpec RuleTag = "type_spec"
)

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dbmigrate/oratopg/catalogtest"
	"github.com/dbmigrate/oratopg/indices"
	"github.com/dbmigrate/oratopg/parser"
	"github.com/dbmigrate/oratopg/transform"
	"github.com/spf13/cobra"
)

// currentIndices builds the indices.Indices snapshot a translation runs
// against. The core never opens a database connection (spec.md §1
// Non-goals), so the CLI - itself out of spec scope, per §6's "minimal
// interfaces" framing - has no catalog of its own to query; it hands
// the builder an empty snapshot scoped to --schema, which is sufficient
// for schema-qualifying bare names (spec.md §4.4.3's final fallback
// step) even with no known tables or synonyms. A host wiring a real
// catalog in front of this core would populate the same indices.Indices
// type from its own metadata store instead.
func currentIndices() *indices.Indices {
	return catalogtest.New().WithSchema(schema).BuildIndices(schema)
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func requireSchema() error {
	if schema == "" {
		return errors.New("--schema is required")
	}
	return nil
}

func printResult(result transform.Result) error {
	if !result.Success {
		log.WithField("oracleSql", result.OracleSQL).Error(result.ErrorMessage)
		return errors.New(result.ErrorMessage)
	}
	fmt.Println(result.PostgresSQL)
	if result.AstTree != "" {
		fmt.Println("===")
		fmt.Println(result.AstTree)
	}
	return nil
}

var transformSQLCmd = &cobra.Command{
	Use:   "transform-sql",
	Short: "Translate a SELECT statement read from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSchema(); err != nil {
			return err
		}
		src, err := readStdin()
		if err != nil {
			return err
		}
		return printResult(transform.TransformSQL(src, schema, currentIndices(), showAST))
	},
}

var transformFunctionCmd = &cobra.Command{
	Use:   "transform-function",
	Short: "Translate a FUNCTION body read from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSchema(); err != nil {
			return err
		}
		src, err := readStdin()
		if err != nil {
			return err
		}
		return printResult(transform.TransformFunction(src, schema, currentIndices(), showAST))
	},
}

var transformProcedureCmd = &cobra.Command{
	Use:   "transform-procedure",
	Short: "Translate a PROCEDURE body read from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSchema(); err != nil {
			return err
		}
		src, err := readStdin()
		if err != nil {
			return err
		}
		return printResult(transform.TransformProcedure(src, schema, currentIndices(), showAST))
	},
}

var parseEntryFlag string

var transformCodeCmd = &cobra.Command{
	Use:   "transform-code",
	Short: "Translate source read from stdin at an explicit --entry parse entry point",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSchema(); err != nil {
			return err
		}
		src, err := readStdin()
		if err != nil {
			return err
		}
		entry := parser.ParseEntry(parseEntryFlag)
		if entry == "" {
			cfg, cfgErr := loadConfig()
			if cfgErr == nil {
				entry = cfg.ParseEntry()
			} else {
				entry = parser.EntrySelectStatement
			}
		}
		result := transform.TransformCode(transform.Request{
			Source:        src,
			CurrentSchema: schema,
			Entry:         entry,
			ShowAST:       showAST,
		}, currentIndices())
		return printResult(result)
	},
}

func init() {
	transformCodeCmd.Flags().StringVar(&parseEntryFlag, "entry", "", "parse entry point (select_statement, function_body, procedure_body, package_spec, package_body); defaults to oratopg.yaml's 'default parse entry', then select_statement")
	rootCmd.AddCommand(transformSQLCmd, transformFunctionCmd, transformProcedureCmd, transformCodeCmd)
}

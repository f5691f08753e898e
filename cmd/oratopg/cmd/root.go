package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "oratopg",
		Short:        "oratopg",
		SilenceUsage: true,
		Long:         `CLI tool for translating Oracle PL/SQL to PostgreSQL SQL/PL-pgSQL.`,
	}

	directory string
	schema    string
	showAST   bool

	log = logrus.New()
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "directory to look for oratopg.yaml in")
	rootCmd.PersistentFlags().StringVarP(&schema, "schema", "s", "", "current schema to resolve unqualified names against")
	rootCmd.PersistentFlags().BoolVar(&showAST, "show-ast", false, "include the parsed tree alongside the translated SQL")
	return rootCmd.Execute()
}

func init() {
}

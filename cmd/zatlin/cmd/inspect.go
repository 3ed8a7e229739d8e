package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b4fun/zatlin-go"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		expr   string
		strict bool
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect [grammar-file]",
		Short: "Print the compiled statement tree of a grammar",
		Long: `Compiles a grammar and prints its statements, patterns and values,
together with the matcher compiled for each exclusion.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readGrammar(cmd, args, expr)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Compile.Strict
			}
			g, err := zatlin.Compile(
				source,
				zatlin.CompileWithFilename(filename),
				zatlin.CompileWithLogger(a.logger),
				zatlin.CompileWithStrict(strict),
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), g)
			fmt.Fprint(cmd.OutOrStdout(), zatlin.DumpGrammar(g))
			return nil
		},
	}

	inspectCmd.Flags().StringVarP(&expr, "expr", "e", "", "inline grammar source")
	inspectCmd.Flags().BoolVar(&strict, "strict", false, "reject undefined variables at compile time")

	return inspectCmd
}

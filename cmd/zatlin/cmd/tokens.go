package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/b4fun/zatlin-go"
)

func newTokensCmd(a *app) *cobra.Command {
	var expr string

	tokensCmd := &cobra.Command{
		Use:   "tokens [grammar-file]",
		Short: "Print the tokens of a grammar",
		Long: `Tokenizes a grammar and prints one token per line as
"line:column kind text". Unknown tokens are listed, not rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readGrammar(cmd, args, expr)
			if err != nil {
				return err
			}

			tokens := zatlin.Tokenize(source)
			a.logger.Debug("tokenized", "grammar", filename, "tokens", len(tokens))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, token := range tokens {
				fmt.Fprintf(w, "%d:%d\t%s\t%s\n", token.Pos.Line, token.Pos.Column, token.Kind, token)
			}
			return w.Flush()
		},
	}

	tokensCmd.Flags().StringVarP(&expr, "expr", "e", "", "inline grammar source")

	return tokensCmd
}

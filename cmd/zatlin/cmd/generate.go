package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b4fun/zatlin-go"
)

type generateFlags struct {
	expr     string
	count    int
	seed     uint64
	retry    int
	maxDepth int
	strict   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	flags := &generateFlags{}

	generateCmd := &cobra.Command{
		Use:   "generate [grammar-file]",
		Short: "Generate words from a grammar",
		Long: `Compiles a grammar and prints one generated word per line.

Failed draws are reported on stderr and make the command exit with status 1.

Examples:
  zatlin generate lexicon.zatlin -n 20
  zatlin generate -e '% "a" | "b" - "a";'
  cat lexicon.zatlin | zatlin generate --seed 7`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, a, flags)
		},
	}

	generateCmd.Flags().StringVarP(&flags.expr, "expr", "e", "", "inline grammar source")
	generateCmd.Flags().IntVarP(&flags.count, "count", "n", 1, "number of words to generate")
	generateCmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random seed for reproducible output")
	generateCmd.Flags().IntVar(&flags.retry, "retry", zatlin.DefaultRetryBudget, "attempts per excluding expression")
	generateCmd.Flags().IntVar(&flags.maxDepth, "max-depth", zatlin.DefaultMaxDepth, "maximum expansion depth")
	generateCmd.Flags().BoolVar(&flags.strict, "strict", false, "reject undefined variables at compile time")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, args []string, a *app, flags *generateFlags) error {
	source, filename, err := readGrammar(cmd, args, flags.expr)
	if err != nil {
		return err
	}

	settings := a.cfg.Generate
	strict := a.cfg.Compile.Strict
	if cmd.Flags().Changed("count") {
		settings.Count = flags.count
	}
	if cmd.Flags().Changed("retry") {
		settings.RetryBudget = flags.retry
	}
	if cmd.Flags().Changed("max-depth") {
		settings.MaxDepth = flags.maxDepth
	}
	if cmd.Flags().Changed("seed") {
		settings.Seed = &flags.seed
	}
	if cmd.Flags().Changed("strict") {
		strict = flags.strict
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

	opts := []zatlin.GeneratorOption{
		zatlin.GeneratorWithRetry(settings.RetryBudget),
		zatlin.GeneratorWithMaxDepth(settings.MaxDepth),
		zatlin.GeneratorWithLogger(a.logger),
	}
	if settings.Seed != nil {
		opts = append(opts, zatlin.GeneratorWithSeed(*settings.Seed))
	}
	gen := zatlin.NewGenerator(opts...)

	a.logger.Debug(
		"generating",
		"grammar", filename,
		"count", settings.Count,
		"retry_budget", settings.RetryBudget,
	)

	failed := 0
	for _, r := range gen.GenerateMany(g, settings.Count) {
		if r.Err != nil {
			failed++
			printError(cmd.ErrOrStderr(), r.Err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Value)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d generations failed", failed, settings.Count)
	}
	return nil
}

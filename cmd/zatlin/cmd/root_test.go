package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b4fun/zatlin-go/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func Test_GenerateCmd(t *testing.T) {
	t.Run("inline source", func(t *testing.T) {
		out, _, err := execute(t, "", "generate", "-e", `% "a" | "b" - "a";`, "-n", "3")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "b", "b"}, lines(out))
	})

	t.Run("file source with seed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lexicon.zatlin")
		require.NoError(t, os.WriteFile(path, []byte("C = \"p\" | \"k\"\nV = \"a\" | \"i\"\n% C V;\n"), 0o600))

		first, _, err := execute(t, "", "generate", path, "-n", "10", "--seed", "3")
		require.NoError(t, err)
		second, _, err := execute(t, "", "generate", path, "-n", "10", "--seed", "3")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		for _, word := range lines(first) {
			assert.Contains(t, []string{"pa", "pi", "ka", "ki"}, word)
		}
	})

	t.Run("stdin source", func(t *testing.T) {
		out, _, err := execute(t, `% "x";`, "generate")
		require.NoError(t, err)
		assert.Equal(t, "x\n", out)
	})

	t.Run("failed draws", func(t *testing.T) {
		out, errOut, err := execute(t, "", "generate", "-e", `% "a" - "a";`, "-n", "2", "--retry", "4")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 of 2 generations failed")
		assert.Empty(t, out)
		assert.Equal(t, 2, strings.Count(errOut, "retry count is over limit: 4 attempts"))
	})

	t.Run("compile error", func(t *testing.T) {
		_, _, err := execute(t, "", "generate", "-e", `% "a"`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end of input in generate")
	})

	t.Run("strict", func(t *testing.T) {
		_, _, err := execute(t, "", "generate", "-e", `% "a" | X;`, "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "undefined variable: X")
	})

	t.Run("config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "zatlin.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("generate:\n  count: 4\n"), 0o600))

		out, _, err := execute(t, "", "--config", cfgPath, "generate", "-e", `% "z";`)
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "z", "z", "z"}, lines(out))
	})

	t.Run("verbose logs to stderr", func(t *testing.T) {
		_, errOut, err := execute(t, "", "-v", "--log-format", "json", "generate", "-e", `% "a" | "b" - "a";`)
		require.NoError(t, err)
		assert.Contains(t, errOut, `"msg":"generating"`)
	})
}

func Test_TokensCmd(t *testing.T) {
	out, _, err := execute(t, "", "tokens", "-e", "C = \"p\"\n% C;")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 7)
	assert.Equal(t, []string{"1:1", "ident", "C"}, strings.Fields(got[0]))
	assert.Equal(t, []string{"1:5", "string", `"p"`}, strings.Fields(got[2]))
	assert.Equal(t, []string{"1:8", "newline", "(NewLine)"}, strings.Fields(got[3]))
	assert.Equal(t, []string{"2:1", "percent", "%"}, strings.Fields(got[4]))
}

func Test_InspectCmd(t *testing.T) {
	out, _, err := execute(t, "", "inspect", "-e", `C = "p"; % C - ^"p";`)
	require.NoError(t, err)
	assert.Contains(t, out, "<Grammar #statements=2 #defines=1 generate=true>")
	assert.Contains(t, out, `generate matcher="^p"`)
	assert.Contains(t, out, "    variable C")
}

func Test_VersionCmd(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "zatlin v"+Version)
}

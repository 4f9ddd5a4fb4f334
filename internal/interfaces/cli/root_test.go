package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand(Dependencies{})
	assert.Equal(t, "contractctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"risk", "preview", "generate", "get", "approve", "migrate", "lead", "events", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"config", "log-level", "output", "verbose", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestDependencies_WithDefaults(t *testing.T) {
	d := Dependencies{}.withDefaults()
	assert.NotNil(t, d.OpenService)
	assert.NotNil(t, d.OpenMigrator)
	assert.NotNil(t, d.OpenLeadStore)
	assert.NotNil(t, d.OpenEventSource)
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestPersistentPreRun_BuildsContext(t *testing.T) {
	var got *CLIContext
	root := NewRootCommand(Dependencies{})
	probe := &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			got, err = GetCLIContext(cmd)
			return err
		},
	}
	root.AddCommand(probe)
	root.SetArgs([]string{"--config", t.TempDir() + "/absent.yaml", "-o", "json", "--timeout", "5s", "-v", "probe"})
	require.NoError(t, root.Execute())

	require.NotNil(t, got)
	assert.Equal(t, "json", got.OutputFormat)
	assert.Equal(t, 5*time.Second, got.Timeout)
	assert.True(t, got.Verbose)
	require.NotNil(t, got.Config)
	assert.Equal(t, "PMC", got.Config.Pipeline.ContractIDPrefix)
	assert.NotNil(t, got.Logger)
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, Dependencies{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contractctl "+Version)

	out, err = runCLI(t, Dependencies{}, "-o", "json", "version")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, Version, v["version"])
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"ID", "STATUS"}, [][]string{{"PMC-1", "approved"}, {"PMC-22"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID      STATUS  ", lines[0])
	assert.Equal(t, "------  --------", lines[1])
	assert.Equal(t, "PMC-1   approved", lines[2])
	assert.Equal(t, "PMC-22          ", lines[3])

	assert.Empty(t, FormatTable(nil, nil))
}

func TestPrintHelpers(t *testing.T) {
	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	PrintSuccess(cmd, "done")
	PrintError(cmd, errors.New("boom"))
	PrintError(cmd, nil)
	assert.Equal(t, "OK: done\n", out.String())
	assert.Equal(t, "Error: boom\n", errOut.String())

	// Without a CLIContext results fall back to JSON.
	out.Reset()
	require.NoError(t, PrintResult(cmd, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, out.String())
}

//Personal.AI order the ending

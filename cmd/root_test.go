//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"classify", "info", "export", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "tract-choropleth", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestClassifyCommand_Flags(t *testing.T) {
	flag := classifyCmd.Flags().Lookup("format")
	require.NotNil(t, flag, "classify command should have --format flag")
	assert.Equal(t, "table", flag.DefValue)
}

func TestInfoCommand_Args(t *testing.T) {
	assert.Error(t, infoCmd.Args(infoCmd, nil))
	assert.NoError(t, infoCmd.Args(infoCmd, []string{"4023.02"}))
}

func TestExportCommand_Flags(t *testing.T) {
	for _, name := range []string{"xlsx", "to-db", "table"} {
		assert.NotNil(t, exportCmd.Flags().Lookup(name), "export command should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

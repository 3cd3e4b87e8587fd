package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Structure(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)

	var found bool
	for _, cmd := range mcpCmd.Commands() {
		if cmd.Name() == "serve" {
			found = true
		}
	}
	assert.True(t, found, "mcp should have a serve subcommand")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_NeedsServices(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	syncOrchestrator, searchService = nil, nil

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "services not configured")
}

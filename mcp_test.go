package main

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestRun_MCPServerMissingConfig(t *testing.T) {
	// Point the config lookup at an empty directory and clear the globals
	// that flag parsing would normally populate
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer os.Unsetenv("XDG_CONFIG_HOME")
	baseURL = ""
	token = ""

	ctx := context.Background()
	err := run(ctx, []string{"mcp-server"})

	if err == nil {
		t.Error("Expected error for missing configuration, got nil")
	}

	if !strings.Contains(err.Error(), "base URL is required") {
		t.Errorf("Expected 'base URL is required' error, got: %v", err)
	}
}

func TestRun_UnknownSubCommand(t *testing.T) {
	ctx := context.Background()
	err := run(ctx, []string{"bogus"})

	if err == nil {
		t.Error("Expected error for unknown sub-command, got nil")
	}

	if !strings.Contains(err.Error(), "unknown sub-command") {
		t.Errorf("Expected 'unknown sub-command' error, got: %v", err)
	}
}

func TestRun_ConfigureMissingHost(t *testing.T) {
	ctx := context.Background()
	err := run(ctx, []string{"configure"})

	if err == nil {
		t.Error("Expected error for missing host, got nil")
	}

	if !strings.Contains(err.Error(), "host is required") {
		t.Errorf("Expected 'host is required' error, got: %v", err)
	}
}

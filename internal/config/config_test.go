package config

import (
	"os"
	"testing"
)

// TestSaveLoadTokenFile tests the file-based token storage
func TestSaveLoadTokenFile(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir := t.TempDir()

	// Override the config directory
	origConfigDir := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer func() {
		if origConfigDir != "" {
			os.Setenv("XDG_CONFIG_HOME", origConfigDir)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	testHost := "https://jira.example.com"
	testToken := "test-token-12345"

	// Test saving token to file
	err := saveTokenToFile(testHost, testToken)
	if err != nil {
		t.Fatalf("Failed to save token to file: %v", err)
	}

	// Test loading token from file
	loadedToken, err := loadTokenFromFile(testHost)
	if err != nil {
		t.Fatalf("Failed to load token from file: %v", err)
	}

	if loadedToken != testToken {
		t.Errorf("Expected token %q, got %q", testToken, loadedToken)
	}

	// Verify file permissions
	tokenPath, err := getTokenFilePath()
	if err != nil {
		t.Fatalf("Failed to get token file path: %v", err)
	}

	info, err := os.Stat(tokenPath)
	if err != nil {
		t.Fatalf("Failed to stat token file: %v", err)
	}

	// Check that permissions are 0600 (owner read/write only)
	expectedPerm := os.FileMode(0600)
	if info.Mode().Perm() != expectedPerm {
		t.Errorf("Expected file permissions %v, got %v", expectedPerm, info.Mode().Perm())
	}
}

// TestSaveLoadTokenFileMultipleHosts tests storing tokens for multiple hosts
func TestSaveLoadTokenFileMultipleHosts(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir := t.TempDir()

	// Override the config directory
	origConfigDir := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer func() {
		if origConfigDir != "" {
			os.Setenv("XDG_CONFIG_HOME", origConfigDir)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	hosts := map[string]string{
		"https://jira1.example.com": "token1",
		"https://jira2.example.com": "token2",
		"https://jira3.example.com": "token3",
	}

	// Save all tokens
	for host, token := range hosts {
		err := saveTokenToFile(host, token)
		if err != nil {
			t.Fatalf("Failed to save token for %s: %v", host, err)
		}
	}

	// Load and verify all tokens
	for host, expectedToken := range hosts {
		loadedToken, err := loadTokenFromFile(host)
		if err != nil {
			t.Fatalf("Failed to load token for %s: %v", host, err)
		}
		if loadedToken != expectedToken {
			t.Errorf("For host %s, expected token %q, got %q", host, expectedToken, loadedToken)
		}
	}
}

// TestLoadTokenFileNotFound tests error handling when token file doesn't exist
func TestLoadTokenFileNotFound(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir := t.TempDir()

	// Override the config directory
	origConfigDir := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer func() {
		if origConfigDir != "" {
			os.Setenv("XDG_CONFIG_HOME", origConfigDir)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	// Try to load from non-existent file
	_, err := loadTokenFromFile("https://nonexistent.example.com")
	if err == nil {
		t.Error("Expected error when loading from non-existent file, got nil")
	}
}

// TestSaveLoadConfig tests the host config file round trip
func TestSaveLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	origConfigDir := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer func() {
		if origConfigDir != "" {
			os.Setenv("XDG_CONFIG_HOME", origConfigDir)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	testHost := "https://jira.example.com"

	if err := SaveConfig(testHost); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Host != testHost {
		t.Errorf("Expected host %q, got %q", testHost, cfg.Host)
	}
}

// TestLoadConfigNotFound tests error handling when no config file exists
func TestLoadConfigNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	origConfigDir := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer func() {
		if origConfigDir != "" {
			os.Setenv("XDG_CONFIG_HOME", origConfigDir)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	_, err := LoadConfig()
	if err == nil {
		t.Error("Expected error when no config file exists, got nil")
	}
}

// TestIsKeyringUnavailable tests the error detection function
func TestIsKeyringUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "dbus error",
			err:      &testError{"failed to connect to dbus"},
			expected: true,
		},
		{
			name:     "secret service error",
			err:      &testError{"The Secret Service is not available"},
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      &testError{"permission denied"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isKeyringUnavailable(tt.err)
			if got != tt.expected {
				t.Errorf("isKeyringUnavailable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

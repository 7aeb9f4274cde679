package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "jira2json"
	configFile  = "config.json"
	tokenFile   = "tokens.json"
)

// Config represents the jira2json configuration
type Config struct {
	// Host is the base URL of the Jira server.
	Host string `json:"host"`
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDirPath, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	configPath := filepath.Join(configDirPath, "jira2json", configFile)
	return configPath, nil
}

// SaveConfig saves the host to the config file
func SaveConfig(host string) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDirPath := filepath.Dir(configPath)
	if err := os.MkdirAll(configDirPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	config := Config{Host: host}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadConfig loads the host from the config file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found, please run 'jira2json configure' first")
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToken saves the token to the keyring, falling back to a token file
// when no keyring backend is available (e.g. headless hosts without dbus)
func SaveToken(host, token string) error {
	if err := keyring.Set(serviceName, host, token); err != nil {
		if isKeyringUnavailable(err) {
			return saveTokenToFile(host, token)
		}
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// LoadToken loads the token for host from the keyring, or from the token
// file if the keyring has no entry or no backend is available
func LoadToken(host string) (string, error) {
	token, err := keyring.Get(serviceName, host)
	if err == nil {
		return token, nil
	}

	if err == keyring.ErrNotFound || isKeyringUnavailable(err) {
		if token, ferr := loadTokenFromFile(host); ferr == nil {
			return token, nil
		}
	}

	if err == keyring.ErrNotFound {
		return "", fmt.Errorf("token not found for host %s, please run 'jira2json configure' first", host)
	}
	return "", fmt.Errorf("failed to get token from keyring: %w", err)
}

// isKeyringUnavailable reports whether err indicates that no keyring backend
// can be reached at all, as opposed to a missing entry
func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"dbus", "secret service", "not available", "exec:"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func getTokenFilePath() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(configPath), tokenFile), nil
}

func saveTokenToFile(host, token string) error {
	tokenPath, err := getTokenFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(tokenPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tokens := map[string]string{}
	if data, err := os.ReadFile(tokenPath); err == nil {
		// A corrupt token file is overwritten
		_ = json.Unmarshal(data, &tokens)
	}
	tokens[host] = token

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := os.WriteFile(tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func loadTokenFromFile(host string) (string, error) {
	tokenPath, err := getTokenFilePath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	tokens := map[string]string{}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return "", fmt.Errorf("failed to parse token file: %w", err)
	}

	token, ok := tokens[host]
	if !ok {
		return "", fmt.Errorf("token not found for host %s", host)
	}
	return token, nil
}

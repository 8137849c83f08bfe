// Package configs manages sealbox user settings.
//
// Settings live in a TOML file at ~/.config/sealbox/config.toml and supply
// defaults for everything the CLI flags can override: where key pairs are
// written, what size they are, and whether ciphertext artifacts are
// base64-armored. A missing config file is not an error; defaults apply.
package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig holds the user's sealbox settings.
type UserConfig struct {
	Keys    KeysConfig    `toml:"keys"`
	Encrypt EncryptConfig `toml:"encrypt"`
}

// KeysConfig configures key pair generation and lookup.
type KeysConfig struct {
	// Directory is where keygen writes key pairs when no explicit paths are given.
	Directory string `toml:"directory"`

	// Bits is the default RSA key size.
	Bits int `toml:"bits"`
}

// EncryptConfig configures the encrypt operation.
type EncryptConfig struct {
	// Armor controls whether ciphertext artifacts are base64-encoded text.
	Armor bool `toml:"armor"`
}

// DefaultUserConfig returns the settings used when no config file exists.
func DefaultUserConfig() (UserConfig, error) {
	configDir, err := userConfigDir()
	if err != nil {
		return UserConfig{}, err
	}
	return UserConfig{
		Keys: KeysConfig{
			Directory: filepath.Join(configDir, "keys"),
			Bits:      2048,
		},
		Encrypt: EncryptConfig{
			Armor: true,
		},
	}, nil
}

// LoadUserConfig reads the user's config file, falling back to defaults when
// the file does not exist.
func LoadUserConfig() (UserConfig, error) {
	config, err := DefaultUserConfig()
	if err != nil {
		return UserConfig{}, err
	}

	path, err := UserConfigPath()
	if err != nil {
		return UserConfig{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, &config); err != nil {
		return UserConfig{}, fmt.Errorf("failed to parse config at %s: %w", path, err)
	}
	return config, nil
}

// SaveUserConfig writes the user's config file, creating the directory if needed.
func SaveUserConfig(config UserConfig) error {
	path, err := UserConfigPath()
	if err != nil {
		return err
	}
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}
	return nil
}

// UserConfigPath returns the path of the user's config file.
func UserConfigPath() (string, error) {
	configDir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

func userConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "sealbox"), nil
}

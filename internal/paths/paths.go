// Package paths provides sudo-aware path resolution for SportWatch.
//
// When running with sudo, these functions correctly resolve paths to the
// original user's directories (via SUDO_USER) instead of root's directories.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// UserHomeDir returns the home directory of the actual user.
// If running with sudo, returns the SUDO_USER's home directory, not root's.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
		// Fall through if lookup fails
	}

	return os.UserHomeDir()
}

// UserConfigDir returns the config directory of the actual user.
// On Linux this is typically ~/.config
func UserConfigDir() (string, error) {
	homeDir, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config"), nil
}

// SportWatchDir returns the SportWatch config directory.
// This is ~/.config/sportwatch for the actual user.
func SportWatchDir() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "sportwatch"), nil
}

// RegistryPath returns the path to the release-group registry database.
// This is ~/.config/sportwatch/groups.db for the actual user.
func RegistryPath() (string, error) {
	dir, err := SportWatchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "groups.db"), nil
}

// ConfigPath returns the path to the SportWatch config file.
// This is ~/.config/sportwatch/config.toml for the actual user.
func ConfigPath() (string, error) {
	dir, err := SportWatchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SportsDir returns the directory holding per-sport override files.
// This is ~/.config/sportwatch/sports for the actual user.
func SportsDir() (string, error) {
	dir, err := SportWatchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sports"), nil
}

// ActualUser returns the actual username (not root when using sudo).
func ActualUser() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		return sudoUser
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

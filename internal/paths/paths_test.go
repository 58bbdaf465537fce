package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"
)

func TestUserHomeDir_NoSudo(t *testing.T) {
	// Clear SUDO_USER to simulate normal execution
	os.Unsetenv("SUDO_USER")

	got, err := UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}

	// Should return current user's home
	expected, _ := os.UserHomeDir()
	if got != expected {
		t.Errorf("UserHomeDir() = %q, want %q", got, expected)
	}
}

func TestUserHomeDir_WithSudoUser(t *testing.T) {
	// Get current user to use as test subject
	currentUser, err := user.Current()
	if err != nil {
		t.Skip("Cannot get current user")
	}

	// Set SUDO_USER to current user (simulates sudo from this user)
	os.Setenv("SUDO_USER", currentUser.Username)
	defer os.Unsetenv("SUDO_USER")

	got, err := UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}

	if got != currentUser.HomeDir {
		t.Errorf("UserHomeDir() = %q, want %q", got, currentUser.HomeDir)
	}
}

func TestUserHomeDir_SudoUserRoot(t *testing.T) {
	// SUDO_USER=root should be ignored
	os.Setenv("SUDO_USER", "root")
	defer os.Unsetenv("SUDO_USER")

	got, err := UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}

	// Should fall back to current user's home (not /root)
	expected, _ := os.UserHomeDir()
	if got != expected {
		t.Errorf("UserHomeDir() = %q, want %q", got, expected)
	}
}

func TestConfigPaths(t *testing.T) {
	os.Unsetenv("SUDO_USER")

	dir, err := SportWatchDir()
	if err != nil {
		t.Fatalf("SportWatchDir() error = %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".config", "sportwatch")) {
		t.Errorf("SportWatchDir() = %q, want ~/.config/sportwatch suffix", dir)
	}

	cfg, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v", err)
	}
	if cfg != filepath.Join(dir, "config.toml") {
		t.Errorf("ConfigPath() = %q, want %q", cfg, filepath.Join(dir, "config.toml"))
	}

	reg, err := RegistryPath()
	if err != nil {
		t.Fatalf("RegistryPath() error = %v", err)
	}
	if reg != filepath.Join(dir, "groups.db") {
		t.Errorf("RegistryPath() = %q, want %q", reg, filepath.Join(dir, "groups.db"))
	}

	sports, err := SportsDir()
	if err != nil {
		t.Fatalf("SportsDir() error = %v", err)
	}
	if sports != filepath.Join(dir, "sports") {
		t.Errorf("SportsDir() = %q, want %q", sports, filepath.Join(dir, "sports"))
	}
}

func TestUserHomeDir_NonexistentUser(t *testing.T) {
	// SUDO_USER set to nonexistent user should fall back
	os.Setenv("SUDO_USER", "nonexistent_user_12345")
	defer os.Unsetenv("SUDO_USER")

	got, err := UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}

	// Should fall back to current user's home
	expected, _ := os.UserHomeDir()
	if got != expected {
		t.Errorf("UserHomeDir() = %q, want %q", got, expected)
	}
}

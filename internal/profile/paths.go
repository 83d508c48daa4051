package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.wschat.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wschat")
}

// Dir returns the per-username profile directory.
func Dir(username string) string {
	return filepath.Join(BaseDir(), "profiles", username)
}

// LockPath returns the lock file path for a profile.
func LockPath(username string) string {
	return filepath.Join(Dir(username), "LOCK")
}

// LogDir returns the log directory for a profile.
func LogDir(username string) string {
	return filepath.Join(Dir(username), "logs")
}

// LogPath returns the client log file path.
func LogPath(username string) string {
	return filepath.Join(LogDir(username), "wschat.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(username string) error {
	dirs := []string{
		Dir(username),
		LogDir(username),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

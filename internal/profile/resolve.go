package profile

import (
	"os"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/config"
)

// Resolve determines the display name to chat under, using precedence:
// 1. flagOverride (--username flag)
// 2. config.toml username
// 3. the OS login name
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	cfg, err := config.Load(ConfigPath())
	if err == nil && cfg.Username != "" {
		return cfg.Username
	}
	return os.Getenv("USER")
}

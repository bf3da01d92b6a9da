package session

import "github.com/ananyak/chatterm/internal/config"

const DefaultSessionName = "main"

// Resolve determines the active session name using precedence:
// 1. flagOverride (--session flag)
// 2. config.toml default_session
// 3. "main"
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	cfg, err := config.Load(ConfigPath())
	if err == nil && cfg.DefaultSession != "" {
		return cfg.DefaultSession
	}
	return DefaultSessionName
}

// ResolveBackendURL determines the backend base URL using precedence:
// 1. flagOverride (--backend flag)
// 2. config.toml backend_url
// 3. the local stub default
func ResolveBackendURL(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	cfg, err := config.Load(ConfigPath())
	if err == nil && cfg.BackendURL != "" {
		return cfg.BackendURL
	}
	return config.DefaultBackendURL
}

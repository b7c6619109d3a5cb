package config

// Version is the stardust-mcp binary version.
// Set at build time via: -ldflags "-X github.com/stardustdb/stardust-mcp/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"

package types

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/SzymonZur/cwr-generator/pkg/domain/types.Version=..."
var Version = "0.1.0"

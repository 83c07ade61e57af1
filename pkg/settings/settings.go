// Package settings holds build metadata and the per-invocation runtime
// settings of the zkx CLI, plus helpers to carry them through a context.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "zkx"

// VersionInformation is set at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings of a single invocation that are not part of the
// config file.
type Run struct {
	// MinLogLevel is a zap level; negative values enable verbose logs.
	MinLogLevel int8
	ConfigFile  string
	LogFile     string
	NoColor     bool
	// Offline replaces the ZooKeeper dialer with an in-memory tree.
	Offline bool
}

// NewCliParams returns the defaults used before flags are parsed.
func NewCliParams() *Run {
	return &Run{}
}

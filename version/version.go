// Package version exposes build-time version information.
package version

// Set at build time via -ldflags.
//
//nolint:gochecknoglobals
var (
	name    = "colloquy"
	version = "dev"
	commit  = "unknown"
)

func Name() string {
	return name
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}

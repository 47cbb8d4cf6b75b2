package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Number is the semantic version of the xst CLI, overridable at build
// time via -ldflags.
var Number = "0.1.0-dev"

// Commit and BuildDate are stamped via -ldflags. When absent, Current
// falls back to the vcs metadata the Go toolchain embeds in the binary.
var (
	Commit    = ""
	BuildDate = ""
)

// Info is a resolved build fingerprint.
type Info struct {
	Number    string
	Commit    string
	BuildDate string
	Dirty     bool
}

// Current resolves the fingerprint, preferring stamped values over the
// binary's embedded vcs settings.
func Current() Info {
	info := Info{Number: Number, Commit: Commit, BuildDate: BuildDate}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// Colored renders Number with the major, minor, and patch components
// colorized. Non-semver numbers pass through unchanged.
func Colored() string {
	parts := strings.SplitN(Number, ".", 3)
	if len(parts) != 3 {
		return Number
	}
	return color.New(color.FgYellow, color.Bold).Sprint(parts[0]) + "." +
		color.New(color.FgGreen, color.Bold).Sprint(parts[1]) + "." +
		color.New(color.FgBlue, color.Bold).Sprint(parts[2])
}

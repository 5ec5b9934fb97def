// Package detector chooses how build progress is presented.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/texbox/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode selects the color profile and verbosity of the build report.
type OutputMode int

const (
	// ModeAuto defers to DetectEnvironment.
	ModeAuto OutputMode = iota
	// ModeInteractive uses the terminal's full color profile.
	ModeInteractive
	// ModeCI uses basic ANSI colors suitable for CI logs.
	ModeCI
	// ModePlain never emits escape sequences.
	ModePlain
)

// String returns the flag value naming the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeCI:
		return "ci"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}

// DetectEnvironment returns ModeInteractive when stderr is a terminal
// outside CI, and ModeCI otherwise.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	if !isTTY || IsCI() {
		return ModeCI
	}
	return ModeInteractive
}

// IsCI reports whether the CI environment variable is set to a truthy value.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// ResolveMode applies the --output flag on top of the detected mode.
// Unknown values fall back to the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "interactive", "tty":
		return ModeInteractive
	case "ci", "linear":
		return ModeCI
	case "plain":
		return ModePlain
	default:
		return autoDetected
	}
}

// Profile returns the color profile selector for mode.
func Profile(mode OutputMode) func() termenv.Profile {
	switch mode {
	case ModeInteractive:
		return output.ColorProfile
	case ModePlain:
		return output.PlainProfile
	default:
		return output.ColorProfileANSI
	}
}

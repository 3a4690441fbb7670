package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how a grid is written to the terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes a styled table once.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea grid.
	OutputModeInteractive
)

// String implements fmt.Stringer.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks the richest mode the environment supports.
// forcePlain and noColor come from flags; NO_COLOR and a non-terminal stdout
// also force plain output. Interactive mode additionally needs a terminal on
// stdin and interactive=true.
func DetectOutputMode(forcePlain, noColor, interactive bool) OutputMode {
	return detectOutputMode(forcePlain, noColor, interactive,
		isTerminal(os.Stdout), isTerminal(os.Stdin), os.Getenv("NO_COLOR") != "")
}

func detectOutputMode(forcePlain, noColor, interactive, stdoutTTY, stdinTTY, noColorEnv bool) OutputMode {
	if forcePlain || noColor || noColorEnv || !stdoutTTY {
		return OutputModePlain
	}
	if interactive && stdinTTY {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

// ThemeFor returns the theme matching mode.
func ThemeFor(mode OutputMode) Theme {
	if mode == OutputModePlain {
		return PlainTheme()
	}
	return DefaultTheme()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

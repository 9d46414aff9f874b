package version

import (
	"fmt"

	"github.com/fatih/color"
)

const Version = "v0.1.0"

// asciiArtTpl returns the ASCII art of sqlitehelper.
func asciiArtTpl() string {
	asciiArt := `
           _ _ _       _          _
 ___  __ _| (_) |_ ___| |__   ___| |_ __   ___ _ __
/ __|/ _' | | | __/ _ \ '_ \ / _ \ | '_ \ / _ \ '__|
\__ \ (_| | | | ||  __/ | | |  __/ | |_) |  __/ |
|___/\__, |_|_|\__\___|_| |_|\___|_| .__/ \___|_|
        |_|                        |_|
%s ` + Version

	asciiArt = asciiArt[1:] // This just removes the first newline character
	return color.New(color.FgCyan, color.Bold).Sprint(asciiArt)
}

// CLIVersion returns the version banner of the sqlitehelper CLI.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}

// ShellVersion returns the version banner of the interactive shell.
func ShellVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Shell")
}

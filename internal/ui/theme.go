package ui

import (
	"strings"

	"github.com/idilsaglam/techtrack/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending, Progress string
	CornerTL, CornerTR, CornerBL, CornerBR                  string
	H, V                                                    string
	SymNotStarted, SymInProgress, SymCompleted              string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m", Progress: "\033[94m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymNotStarted: "◌", SymInProgress: "◐", SymCompleted: "●",
		}
	case "mono":
		disableColor = true
		current = Theme{
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymNotStarted: "[ ]", SymInProgress: "[~]", SymCompleted: "[x]",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow, Progress: fgCyan,
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymNotStarted: "○", SymInProgress: "↻", SymCompleted: "✓",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// StatusSymbol is the icon shown next to an item.
func (t Theme) StatusSymbol(s model.Status) string {
	switch s {
	case model.InProgress:
		return t.SymInProgress
	case model.Completed:
		return t.SymCompleted
	}
	return t.SymNotStarted
}

// StatusColor is the palette entry for a status.
func (t Theme) StatusColor(s model.Status) string {
	switch s {
	case model.InProgress:
		return t.Progress
	case model.Completed:
		return t.Success
	}
	return t.Pending
}

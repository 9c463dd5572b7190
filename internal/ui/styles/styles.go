// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Cell ids, secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"} // Hints, help text, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Cell kinds
	KindCellColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}
	KindCompositeColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	// Permission roles
	RoleAdminColor = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#FF8787"}
	RolePushColor  = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	RolePullColor  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	SubtitleStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)

	HelpStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	UserBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1A5276")).
			Padding(0, 1)

	SignedOutBadgeStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor).
				Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}
)

// KindStyle returns the style for a cell kind label.
func KindStyle(kind string) lipgloss.Style {
	if kind == "Composite" {
		return lipgloss.NewStyle().Foreground(KindCompositeColor)
	}
	return lipgloss.NewStyle().Foreground(KindCellColor)
}

// RoleStyle returns the style for a permission role label.
func RoleStyle(role string) lipgloss.Style {
	switch role {
	case "admin":
		return lipgloss.NewStyle().Foreground(RoleAdminColor).Bold(true)
	case "push":
		return lipgloss.NewStyle().Foreground(RolePushColor)
	default:
		return lipgloss.NewStyle().Foreground(RolePullColor)
	}
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nkoval/vtv/internal/config"
)

const AppName = "vtv"

var LogoLines = []string{
	"▀██  ▀██ ▄█████████ ▀██  ▀██",
	" ██   ██     ██      ██   ██",
	"  ██ ██      ██       ██ ██ ",
	"   ███       ██        ███  ",
	"    █        ██         █   ",
}

const CompactLogo = "vtv ›"

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF4E45"),
	lipgloss.Color("#FF8A3D"),
	lipgloss.Color("#F1F1F1"),
	lipgloss.Color("#FF4E45"),
	lipgloss.Color("#FF8A3D"),
}

// Theme colors, overridable from the config file via ApplyTheme.
var (
	PrimaryColor   = lipgloss.Color("#FF4E45")
	SecondaryColor = lipgloss.Color("#FF8A3D")
	AccentColor    = lipgloss.Color("#3EA6FF")

	BackgroundColor = lipgloss.Color("#0F0F0F")
	SurfaceColor    = lipgloss.Color("#272727")
	TextColor       = lipgloss.Color("#F1F1F1")
	MutedColor      = lipgloss.Color("#AAAAAA")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(AccentColor).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	ChannelStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	EmptyStyle = lipgloss.NewStyle()
)

// ApplyTheme overrides the default palette with configured colors.
// Empty fields keep their defaults.
func ApplyTheme(colors config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, colors.Primary)
	set(&SecondaryColor, colors.Secondary)
	set(&AccentColor, colors.Accent)
	set(&BackgroundColor, colors.Background)
	set(&SurfaceColor, colors.Surface)
	set(&TextColor, colors.Text)
	set(&MutedColor, colors.Muted)
	set(&ErrorColor, colors.Error)
	set(&SuccessColor, colors.Success)

	LogoStyle = LogoStyle.Foreground(PrimaryColor)
	TitleStyle = TitleStyle.Foreground(TextColor).Background(SurfaceColor)
	HeaderStyle = HeaderStyle.Foreground(SecondaryColor)
	StatusBarStyle = StatusBarStyle.Foreground(MutedColor)
	SelectedItemStyle = SelectedItemStyle.Foreground(BackgroundColor).Background(AccentColor)
	HelpStyle = HelpStyle.Foreground(MutedColor)
	TimeStyle = TimeStyle.Foreground(MutedColor)
	LiveBadgeStyle = LiveBadgeStyle.Foreground(TextColor).Background(PrimaryColor)
	ChannelStyle = ChannelStyle.Foreground(SecondaryColor)
	ErrorMessageStyle = ErrorMessageStyle.Foreground(ErrorColor)
	StatusInfoStyle = StatusInfoStyle.Foreground(MutedColor)
	StatusSuccessStyle = StatusSuccessStyle.Foreground(SuccessColor)
	StatusWarnStyle = StatusWarnStyle.Foreground(SecondaryColor)
	StatusErrorStyle = StatusErrorStyle.Foreground(ErrorColor)
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Press / to search, v for shorts")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// ShowBanner prints the startup banner to stdout before the program
// enters the alternate screen.
func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("  terminal video browser %s", versionTag))
	} else {
		lines = append(lines, "  terminal video browser")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(borderStyle.Render(banner)))
}

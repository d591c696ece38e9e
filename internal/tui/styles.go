package tui

import "github.com/charmbracelet/lipgloss"

const banner = `
        ▐ ▄       ·▄▄▄▄  ▄▄▄ .    ▄ •▄ ▪  ▄▄▌  ▄▄▌  ▄▄▄ .▄▄▄
        •█▌▐█▪     ██▪ ██ ▀▄.▀·    █▌▄▌▪██ ██•  ██•  ▀▄.▀·▀▄ █·
        ▐█▐▐▌ ▄█▀▄ ▐█· ▐█▌▐▀▀▪▄    ▐▀▀▄·▐█·██▪  ██▪  ▐▀▀▪▄▐▀▀▄
        ██▐█▌▐█▌.▐▌██. ██ ▐█▄▄▌    ▐█.█▌▐█▌▐█▌▐▌▐█▌▐▌▐█▄▄▌▐█•█▌
        ▀▀ █▪ ▀█▄▀▪▀▀▀▀▀•  ▀▀▀     ·▀  ▀▀▀▀.▀▀▀ .▀▀▀  ▀▀▀ .▀  ▀
`

var (
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true) // cyan
	markStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))           // gray
	markSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // green
	indexStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	questionStyle     = lipgloss.NewStyle().Bold(true)
	promptStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green "?"
	answerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	GoodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	BadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
)

// Banner renders the startup banner.
func Banner() string {
	return GoodStyle.Render(banner)
}

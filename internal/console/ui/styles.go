package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/25
 * @file: styles.go
 * @description: 控制台配色与公共样式
 */

var (
	colorText   = lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e8e8f0"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8b8fa3"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2f7"}
	colorDanger = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f7768e"}
	colorOk     = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#9ece6a"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#e0af68"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#3b4261"}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	crumbStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	errStyle    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorOk)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	labelStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	secretStyle = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// statusBadge renders an email delivery status with its color.
func statusBadge(status string) string {
	switch status {
	case model.EmailStatusSent:
		return okStyle.Render(status)
	case model.EmailStatusFailed:
		return errStyle.Render(status)
	case model.EmailStatusQueued:
		return warnStyle.Render(status)
	default:
		return mutedStyle.Render(status)
	}
}

// verificationBadge renders a domain verification status with its color.
func verificationBadge(status string) string {
	switch status {
	case model.DomainVerificationVerified:
		return okStyle.Render(status)
	case model.DomainVerificationFailed:
		return errStyle.Render(status)
	default:
		return warnStyle.Render(status)
	}
}

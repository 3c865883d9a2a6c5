package cmd

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/taigrr/colorhash"

	"github.com/dendrascience/zipsort/bucket"
)

var (
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// keyStyle gives every bucket key a stable color from the 6x6x6 cube of the
// 256 color palette.
func keyStyle(key string) lipgloss.Style {
	h := colorhash.HashString(key)
	if h < 0 {
		h = -h
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(strconv.Itoa(16 + h%216))).
		Bold(true)
}

func keyLabel(key string) string {
	return keyStyle(key).Render(bucket.Label(key))
}

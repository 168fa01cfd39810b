package ui

import "github.com/charmbracelet/lipgloss"

// The splash logo is rendered from text rather than an image so it works in
// any terminal.
const logo = `
                              _   _
  _ __   ___ _   _ _ __ ___ | |_(_) ___
 | '_ \ / _ \ | | | '__/ _ \| __| |/ __|
 | | | |  __/ |_| | | | (_) | |_| | (__
 |_| |_|\___|\__,_|_|  \___/ \__|_|\___|
`

func (w *Window) splashView() string {
	body := w.theme.Accent.Render(logo) + "\n" +
		w.theme.Muted.Render("curate, visualize, annotate, and share your behavioral ephys data")
	box := w.theme.Border.Render(body)
	if w.width == 0 || w.height == 0 {
		return box
	}
	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
}

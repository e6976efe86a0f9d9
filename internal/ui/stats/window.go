package stats

import (
	"fmt"

	"perch/internal/core/usage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window displays the reconstructed usage history with a live activity line.
type Window struct {
	window      fyne.Window
	statusLabel *widget.Label
	daysBox     *fyne.Container
	onRefresh   func() ([]usage.Day, error)
}

// New creates the usage history window. onRefresh is called whenever the
// window needs fresh data.
func New(app fyne.App, onRefresh func() ([]usage.Day, error)) *Window {
	window := app.NewWindow("Perch Usage")

	statusLabel := widget.NewLabel("Status: starting...")
	daysBox := container.NewVBox()

	stats := &Window{
		window:      window,
		statusLabel: statusLabel,
		daysBox:     daysBox,
		onRefresh:   onRefresh,
	}

	refreshButton := widget.NewButton("Refresh", func() {
		stats.Refresh()
	})

	header := container.NewBorder(nil, nil, statusLabel, refreshButton)
	window.SetContent(container.NewBorder(header, nil, nil, nil, container.NewVScroll(daysBox)))
	window.Resize(fyne.NewSize(460, 540))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return stats
}

// Show displays the window and reloads its content.
func (stats *Window) Show() {
	stats.Refresh()
	stats.window.Show()
	stats.window.RequestFocus()
}

// SetStatus updates the live activity line.
func (stats *Window) SetStatus(active, mediaPlaying bool) {
	status := "idle"
	if active {
		status = "active"
	}
	if mediaPlaying {
		status += " (media playing)"
	}
	stats.statusLabel.SetText("Status: " + status)
}

// Refresh reloads the usage history from the query callback.
func (stats *Window) Refresh() {
	stats.daysBox.RemoveAll()

	days, err := stats.onRefresh()
	if err != nil {
		stats.daysBox.Add(widget.NewLabel("Failed to load usage: " + err.Error()))
		stats.daysBox.Refresh()
		return
	}
	if len(days) == 0 {
		stats.daysBox.Add(widget.NewLabel("No activity recorded yet."))
		stats.daysBox.Refresh()
		return
	}

	// Most recent day first.
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		header := fmt.Sprintf("%s — %s", day.Date, formatMinutes(day.TotalMinutes))
		stats.daysBox.Add(widget.NewLabelWithStyle(header, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, session := range day.Sessions {
			row := fmt.Sprintf("    %s – %s    %s", session.Start, session.End, formatMinutes(session.DurationMinutes))
			stats.daysBox.Add(widget.NewLabel(row))
		}
	}
	stats.daysBox.Refresh()
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

package preferences

import (
	"fmt"
	"strconv"
	"time"

	"perch/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window          fyne.Window
	config          model.Config
	onSave          func(model.Config)
	breakThreshold  *widget.Entry
	reminderMinutes *widget.Entry
	reminderEnabled *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, config model.Config, onSave func(model.Config)) *Window {
	window := app.NewWindow("Perch Settings")

	breakThreshold := widget.NewEntry()
	reminderMinutes := widget.NewEntry()
	breakThreshold.SetText(fmt.Sprintf("%d", int(config.BreakThreshold.Seconds())))
	reminderMinutes.SetText(fmt.Sprintf("%d", int(config.ReminderThreshold.Minutes())))

	reminderEnabled := widget.NewCheck("Enable break reminders", nil)
	reminderEnabled.SetChecked(config.ReminderEnabled)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Tracking", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Session gap threshold"), breakThreshold, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Remind after"), reminderMinutes, widget.NewLabel("min of activity")),
		reminderEnabled,
	)

	prefs := &Window{
		window:          window,
		config:          config,
		onSave:          onSave,
		breakThreshold:  breakThreshold,
		reminderMinutes: reminderMinutes,
		reminderEnabled: reminderEnabled,
	}

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 240))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateConfig replaces window values.
func (prefs *Window) UpdateConfig(config model.Config) {
	prefs.config = config
	prefs.breakThreshold.SetText(fmt.Sprintf("%d", int(config.BreakThreshold.Seconds())))
	prefs.reminderMinutes.SetText(fmt.Sprintf("%d", int(config.ReminderThreshold.Minutes())))
	prefs.reminderEnabled.SetChecked(config.ReminderEnabled)
}

func (prefs *Window) handleSave() {
	config := prefs.config

	if seconds, ok := parsePositiveInt(prefs.breakThreshold.Text); ok {
		config.BreakThreshold = time.Duration(seconds) * time.Second
	}
	if minutes, ok := parsePositiveInt(prefs.reminderMinutes.Text); ok {
		config.ReminderThreshold = time.Duration(minutes) * time.Minute
	}
	config.ReminderEnabled = prefs.reminderEnabled.Checked

	prefs.config = config
	if prefs.onSave != nil {
		prefs.onSave(config)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

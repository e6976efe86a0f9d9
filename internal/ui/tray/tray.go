package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowUsage       func()
	OnPreferences     func()
	OnToggleReminders func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app              desktop.App
	statusItem       *fyne.MenuItem
	remindersItem    *fyne.MenuItem
	callbacks        Callbacks
	remindersEnabled bool
	statusLabel      string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, remindersEnabled bool, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:              app,
		callbacks:        callbacks,
		remindersEnabled: remindersEnabled,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.remindersItem = fyne.NewMenuItem("", func() {
		if manager.callbacks.OnToggleReminders != nil {
			manager.callbacks.OnToggleReminders()
		}
	})
	manager.applyRemindersLabel()

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetRemindersEnabled updates the reminder toggle label.
func (manager *Manager) SetRemindersEnabled(enabled bool) {
	manager.remindersEnabled = enabled
	manager.applyRemindersLabel()
	manager.refreshMenu()
}

func (manager *Manager) applyRemindersLabel() {
	if manager.remindersEnabled {
		manager.remindersItem.Label = "Disable reminders"
	} else {
		manager.remindersItem.Label = "Enable reminders"
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Perch",
		manager.statusItem,
		fyne.NewMenuItem("Usage history", func() {
			if manager.callbacks.OnShowUsage != nil {
				manager.callbacks.OnShowUsage()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		manager.remindersItem,
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

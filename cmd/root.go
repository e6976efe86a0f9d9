package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"perch/internal/core/model"
	"perch/internal/core/tracker"
	"perch/internal/core/usage"
	"perch/internal/platform"
	"perch/internal/storage"
	"perch/internal/ui/preferences"
	"perch/internal/ui/reminder"
	"perch/internal/ui/stats"
	"perch/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	appName      = "Perch"
	appID        = "com.perch.app"
	tickInterval = 5 * time.Second
	historyDays  = 365
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "perch",
	Short: "Perch - screen usage tracking with break reminders",
	Long: `Perch samples user activity in the background, records it as a compact
ping log, reconstructs daily usage sessions, and reminds you to take a break
after sustained activity. Running without a subcommand starts the desktop app.`,
	Version: version,
	RunE:    runApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configStore guards the runtime configuration shared between the tracker,
// the query path, and the preferences UI.
type configStore struct {
	mu     sync.Mutex
	config model.Config
}

func (store *configStore) Get() model.Config {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.config
}

func (store *configStore) Set(config model.Config) {
	store.mu.Lock()
	store.config = config
	store.mu.Unlock()
}

func runApp(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Warn().Err(err).Msg("another instance is running")
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	config, err := storage.LoadConfig(appName)
	if err != nil {
		logger.Warn().Err(err).Msg("loading config, using defaults")
	}
	store := &configStore{config: config}

	dbPath, err := storage.DefaultDBPath(appName)
	if err != nil {
		return err
	}
	pingLog, err := storage.OpenPingLog(dbPath)
	if err != nil {
		return fmt.Errorf("open ping log: %w", err)
	}
	defer pingLog.Close()
	logger.Info().Str("db", dbPath).Msg("ping log opened")

	fyneApp := app.NewWithID(appID)
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error().Msg("system tray unsupported on this platform")
		return nil
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Perch is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	keeper := tracker.New(config, tracker.Config{TickInterval: tickInterval}, platform.NewSampler(), pingLog)

	statsWindow := stats.New(fyneApp, func() ([]usage.Day, error) {
		return usage.History(pingLog, historyDays, store.Get().BreakThreshold, time.Now())
	})
	reminderWindow := reminder.New(fyneApp)

	var trayManager *tray.Manager
	applyConfig := func(updated model.Config) {
		store.Set(updated)
		keeper.UpdateConfig(updated)
		if err := storage.SaveConfig(appName, updated); err != nil {
			logger.Error().Err(err).Msg("saving config")
		}
		trayManager.SetRemindersEnabled(updated.ReminderEnabled)
	}

	prefsWindow := preferences.New(fyneApp, config, applyConfig)

	trayManager = tray.New(desktopApp, config.ReminderEnabled, tray.Callbacks{
		OnShowUsage: func() {
			statsWindow.Show()
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnToggleReminders: func() {
			updated := store.Get()
			updated.ReminderEnabled = !updated.ReminderEnabled
			applyConfig(updated)
			prefsWindow.UpdateConfig(updated)
		},
		OnQuit: func() {
			keeper.Stop()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(theme.HistoryIcon())

	events := keeper.Subscribe(8)
	go func() {
		for event := range events {
			switch event.Type {
			case tracker.EventStatus:
				handleStatus(event, statsWindow, trayManager)
			case tracker.EventReminder:
				logger.Info().Msg("break reminder threshold crossed")
				fyne.Do(func() {
					reminderWindow.Show(store.Get().ReminderThreshold)
				})
			case tracker.EventLogError:
				logger.Error().Str("cause", event.Message).Msg("recording ping")
			}
		}
	}()

	keeper.Start()
	logger.Info().Dur("tick", tickInterval).Msg("tracker started")

	statsWindow.Show()
	fyneApp.Run()
	return nil
}

func handleStatus(event tracker.Event, statsWindow *stats.Window, trayManager *tray.Manager) {
	status := "idle"
	if event.Active {
		status = "active"
	}
	if event.MediaPlaying {
		status += " (media)"
	}
	fyne.Do(func() {
		statsWindow.SetStatus(event.Active, event.MediaPlaying)
		trayManager.SetStatus(status)
	})
}

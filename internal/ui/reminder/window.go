package reminder

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	bannerWidth  = float32(400)
	bannerHeight = float32(200)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window manages the break reminder banner. Showing it while it is already
// visible is a no-op, so repeated reminder triggers surface a single banner.
type Window struct {
	mu         sync.Mutex
	window     fyne.Window
	titleLabel *canvas.Text
	bodyLabel  *canvas.Text
	visible    bool
}

// New creates the reminder banner window. It stays hidden until Show.
func New(app fyne.App) *Window {
	window := app.NewWindow("Take a Break")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 28, A: 235})

	titleLabel := canvas.NewText("Time for a break", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 22

	bodyLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	bodyLabel.Alignment = fyne.TextAlignCenter
	bodyLabel.TextSize = 15

	banner := &Window{
		window:     window,
		titleLabel: titleLabel,
		bodyLabel:  bodyLabel,
	}

	dismissButton := widget.NewButton("Dismiss", func() {
		banner.Hide()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		titleLabel,
		bodyLabel,
		layout.NewSpacer(),
		container.NewCenter(dismissButton),
		layout.NewSpacer(),
	)
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(bannerWidth, bannerHeight))
	window.SetCloseIntercept(func() {
		banner.Hide()
	})

	return banner
}

// Show surfaces the banner with the active-time message. It is idempotent
// while the banner is visible.
func (banner *Window) Show(activeFor time.Duration) {
	banner.mu.Lock()
	if banner.visible {
		banner.mu.Unlock()
		return
	}
	banner.visible = true
	banner.mu.Unlock()

	banner.bodyLabel.Text = fmt.Sprintf("You have been active for %s.", formatActive(activeFor))
	banner.bodyLabel.Refresh()
	banner.window.CenterOnScreen()
	banner.window.Show()
	banner.window.RequestFocus()
}

// Hide dismisses the banner.
func (banner *Window) Hide() {
	banner.mu.Lock()
	wasVisible := banner.visible
	banner.visible = false
	banner.mu.Unlock()

	if wasVisible {
		banner.window.Hide()
	}
}

// Visible reports whether the banner is currently shown.
func (banner *Window) Visible() bool {
	banner.mu.Lock()
	defer banner.mu.Unlock()
	return banner.visible
}

func formatActive(value time.Duration) string {
	minutes := int(value.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

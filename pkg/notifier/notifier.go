// Package notifier provides adaptation notification functionality
package notifier

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/types"
)

// AdaptationNotifier surfaces engine transitions to the user.
type AdaptationNotifier struct {
	enabled       bool
	fallbackSound bool
	logger        logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled       bool
	FallbackSound bool
}

// New creates a new adaptation notifier
func New(config Config, log logger.Logger) *AdaptationNotifier {
	return &AdaptationNotifier{
		enabled:       config.Enabled,
		fallbackSound: config.FallbackSound,
		logger:        log,
	}
}

// NotifyAdaptation notifies that the surface moved to a new tier
func (n *AdaptationNotifier) NotifyAdaptation(surface string, from, to types.BreakpointTier, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "▦ PaneKit"
	message := fmt.Sprintf("%s adapted %s → %s in %s", surface, from, to, formatDuration(duration))

	n.sendNotification(title, message, false)
}

// NotifyFallbackEntered notifies that adaptation failed and the
// last-good layout is showing
func (n *AdaptationNotifier) NotifyFallbackEntered(surface string, reason error) {
	if !n.enabled {
		return
	}

	title := "⚠️ Layout Fallback"
	message := fmt.Sprintf("%s: %v", surface, reason)

	n.sendNotification(title, message, n.fallbackSound)
}

// NotifyFallbackRecovered notifies that the engine left fallback mode
func (n *AdaptationNotifier) NotifyFallbackRecovered(surface string) {
	if !n.enabled {
		return
	}

	title := "✅ Layout Recovered"
	message := fmt.Sprintf("%s is adapting normally again", surface)

	n.sendNotification(title, message, false)
}

// Private methods

func (n *AdaptationNotifier) sendNotification(title, message string, sound bool) {
	// Platform-specific notification
	switch runtime.GOOS {
	case "darwin":
		n.sendMacNotification(title, message, sound)
	case "linux":
		n.sendLinuxNotification(title, message)
	case "windows":
		n.sendWindowsNotification(title, message)
	default:
		// Fallback to console
		n.logger.Info(fmt.Sprintf("%s: %s", title, message))
	}
}

func (n *AdaptationNotifier) sendMacNotification(title, message string, sound bool) {
	// Use beeep for cross-platform notifications
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}

	// Play sound if specified
	if sound {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

func (n *AdaptationNotifier) sendLinuxNotification(title, message string) {
	// Use notify-send on Linux
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}
}

func (n *AdaptationNotifier) sendWindowsNotification(title, message string) {
	// Use Windows toast notifications
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

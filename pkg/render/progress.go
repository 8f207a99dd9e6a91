package render

import (
	"log/slog"
	"time"
)

// SlogProgressReporter logs render progress at chunk boundaries via the
// ambient structured logger, in place of a terminal status bar.
// Grounded on iris_camera_toolkit/status_bar_progress_reporter.c's
// percentage/rate bookkeeping (elapsed time, pixels rendered, pixels
// per second), re-expressed as structured log fields instead of a
// redrawn console bar: terminal UI libraries in the pack (tcell,
// termenv) are a GUI/TTY concern out of scope for the core.
type SlogProgressReporter struct {
	logger *slog.Logger
	label  string

	nowFunc func() int64 // unix seconds; overridable in tests

	startTime int64
	hasStart  bool
}

// NewSlogProgressReporter builds a reporter that logs under label at
// slog.LevelInfo using logger (slog.Default() if nil).
func NewSlogProgressReporter(logger *slog.Logger, label string) *SlogProgressReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogProgressReporter{logger: logger, label: label, nowFunc: func() int64 { return time.Now().Unix() }}
}

// Report implements ProgressReporter: logs the running percentage and,
// once at least one second has elapsed, the pixels-per-second rate.
// Always returns nil — logging never cancels a render.
func (s *SlogProgressReporter) Report(totalPixels, pixelsRendered int) error {
	now := s.nowFunc()
	if !s.hasStart {
		s.startTime = now
		s.hasStart = true
	}

	percent := 0.0
	if totalPixels > 0 {
		percent = 100 * float64(pixelsRendered) / float64(totalPixels)
	}

	elapsed := now - s.startTime
	attrs := []any{
		"label", s.label,
		"pixels_rendered", pixelsRendered,
		"total_pixels", totalPixels,
		"percent", percent,
	}
	if elapsed > 0 {
		attrs = append(attrs, "pixels_per_second", float64(pixelsRendered)/float64(elapsed))
	}

	s.logger.Info("render progress", attrs...)
	return nil
}

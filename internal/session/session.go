// Package session runs one marker recording session: it owns the EDL
// file, numbers markers and stamps them with time elapsed since start.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/cla7997/edl-timestamps/internal/edl"
	"github.com/cla7997/edl-timestamps/internal/timecode"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/metric"
)

// Config configures a Session. Zero values pick the OS filesystem, the
// working directory, the default title and color, time.Now and
// slog.Default.
type Config struct {
	Fs        afero.Fs
	OutputDir string
	Title     string
	Color     string
	Now       func() time.Time
	Logger    *slog.Logger
}

// Summary is reported when a session ends.
type Summary struct {
	Markers    uint
	Failed     uint
	OutputPath string
	Elapsed    time.Duration
}

// Session is safe for concurrent use. AddMarker and End share one mutex,
// so markers are numbered and written one at a time and End waits for an
// in-flight marker to finish.
type Session struct {
	startTime  time.Time
	outputPath string
	color      string
	now        func() time.Time
	logger     *slog.Logger
	writer     *edl.Writer

	mu          sync.Mutex
	state       State
	markerCount uint
	failed      uint
	summary     Summary

	done chan struct{}

	written  metric.Int64Counter
	failures metric.Int64Counter
}

// New captures the start time, creates the output file and writes its
// header. The returned session is Active.
func New(cfg Config) (*Session, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Session{
		startTime: cfg.Now(),
		color:     cfg.Color,
		now:       cfg.Now,
		logger:    cfg.Logger,
		state:     StateIdle,
		done:      make(chan struct{}),
	}
	s.outputPath = filepath.Join(cfg.OutputDir, edl.FileName(s.startTime))

	m := meter()
	var err error
	s.written, err = m.Int64Counter(
		"session.markers.written",
		metric.WithDescription("Markers appended to the EDL file"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating written counter: %w", err)
	}
	s.failures, err = m.Int64Counter(
		"session.markers.failed",
		metric.WithDescription("Markers whose append failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	if err := cfg.Fs.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, &edl.FileError{Op: "create", Path: cfg.OutputDir, Err: err}
	}

	s.writer, err = edl.Create(cfg.Fs, s.outputPath, cfg.Title)
	if err != nil {
		return nil, err
	}

	s.state = StateActive
	s.logger.Info("Created EDL file", "path", s.outputPath)
	return s, nil
}

// AddMarker appends a one-frame marker at the current elapsed time.
// It returns ErrEnded after End. When the append fails the ordinal stays
// consumed, so the next marker skips it and ordinals are never reused.
func (s *Session) AddMarker() (edl.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return edl.Marker{}, ErrEnded
	}

	elapsed := s.now().Sub(s.startTime)
	s.markerCount++

	marker := edl.Marker{
		Ordinal:  s.markerCount,
		In:       timecode.FromDuration(elapsed, timecode.FrameIn),
		Out:      timecode.FromDuration(elapsed, timecode.FrameOut),
		Color:    s.color,
		Duration: 1,
	}

	if err := s.writer.AppendMarker(marker); err != nil {
		s.failed++
		s.failures.Add(context.Background(), 1)
		s.logger.Error("Failed to write marker", "marker", marker.Ordinal, "error", err)
		return marker, err
	}

	s.written.Add(context.Background(), 1)
	s.logger.Info("Added marker", "marker", marker.Ordinal, "timecode", marker.In)
	return marker, nil
}

// End moves the session to Ended and reports its totals. Calling End again
// returns the same summary.
func (s *Session) End() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return s.summary
	}

	s.state = StateEnded
	s.summary = Summary{
		Markers:    s.markerCount,
		Failed:     s.failed,
		OutputPath: s.outputPath,
		Elapsed:    s.now().Sub(s.startTime),
	}
	close(s.done)

	s.logger.Info("Session ended",
		"markers", s.summary.Markers,
		"failed", s.summary.Failed,
		"path", s.summary.OutputPath,
	)
	return s.summary
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MarkerCount returns the number of ordinals consumed so far.
func (s *Session) MarkerCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markerCount
}

// OutputPath returns the EDL file path.
func (s *Session) OutputPath() string {
	return s.outputPath
}

// StartTime returns the instant the session started.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// Elapsed returns the time since start.
func (s *Session) Elapsed() time.Duration {
	return s.now().Sub(s.startTime)
}

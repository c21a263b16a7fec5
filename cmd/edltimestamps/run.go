package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cla7997/edl-timestamps/internal/config"
	"github.com/cla7997/edl-timestamps/internal/hotkey"
	"github.com/cla7997/edl-timestamps/internal/logging"
	intOtel "github.com/cla7997/edl-timestamps/internal/otel"
	"github.com/cla7997/edl-timestamps/internal/session"
	"github.com/spf13/afero"
)

// app carries the process level collaborators so tests can swap them.
type app struct {
	out       io.Writer
	fs        afero.Fs
	registrar hotkey.Registrar
	now       func() time.Time
}

func (a *app) run(ctx context.Context, configDir string) error {
	if a.now == nil {
		a.now = time.Now
	}
	startedAt := a.now()

	created, cfgErr := config.Load(configDir)

	logMgr := logging.NewSlogManager()
	var fileWriter io.Writer
	if dir := config.GetString("logsDir"); dir != "" {
		f, err := logging.OpenLogFile(dir, appName, startedAt)
		if err != nil {
			fmt.Fprintf(a.out, "Warning: %v\n", err)
		} else {
			defer f.Close()
			fileWriter = f
		}
	}

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    fileWriter,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		fmt.Fprintf(a.out, "Warning: OTel disabled: %v\n", err)
		provider, _ = intOtel.New(intOtel.Config{})
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	logMgr.Setup(a.out, fileWriter, config.GetString("logLevel"), provider.LoggerProvider())
	logger := logMgr.Logger()

	cfgPath := config.ConfigFilePath(configDir)
	switch {
	case cfgErr != nil:
		logger.Warn("Failed to load config, using defaults", "path", cfgPath, "error", cfgErr)
	case created:
		fmt.Fprintf(a.out, "Created default config file: %s\n", cfgPath)
		fmt.Fprintf(a.out, "Default hotkey: %s\n", config.DefaultHotkey)
		fmt.Fprintf(a.out, "Default end hotkey: %s\n", config.DefaultEndHotkey)
	default:
		logger.Debug("Loaded config", "path", cfgPath)
	}

	hk := config.GetHotkeyConfig()
	markerCombo, err := hotkey.ParseCombo(hk.Marker)
	if err != nil {
		return fmt.Errorf("invalid hotkey %q: %w", hk.Marker, err)
	}
	endCombo, err := hotkey.ParseCombo(hk.End)
	if err != nil {
		return fmt.Errorf("invalid end_hotkey %q: %w", hk.End, err)
	}
	if markerCombo.String() == endCombo.String() {
		return fmt.Errorf("hotkey and end_hotkey are both %s", markerCombo)
	}

	var sess *session.Session
	logMgr.WithContext(logging.SessionTimecode(func() time.Duration {
		if sess == nil {
			return 0
		}
		return sess.Elapsed()
	}))
	logger = logMgr.Logger()

	edlCfg := config.GetEDLConfig()
	sess, err = session.New(session.Config{
		Fs:        a.fs,
		OutputDir: edlCfg.OutputDir,
		Title:     edlCfg.Title,
		Color:     edlCfg.Color,
		Now:       a.now,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	fmt.Fprintf(a.out, "Created EDL file: %s\n", sess.OutputPath())

	dispatcher, err := hotkey.New(logger)
	if err != nil {
		sess.End()
		return err
	}
	defer dispatcher.Close()

	dispatcher.Register(markerCombo, func(hotkey.Event) error {
		m, err := sess.AddMarker()
		if errors.Is(err, session.ErrEnded) {
			logger.Debug("Marker ignored, session ended")
			return nil
		}
		if err != nil {
			fmt.Fprintf(a.out, "Failed to add Marker %d: %v\n", m.Ordinal, err)
			return err
		}
		fmt.Fprintf(a.out, "Added Marker %d at %s\n", m.Ordinal, m.In)
		return nil
	}, hotkey.Logged())

	// Buffered so the registrar's callback returns at once and the
	// registrar is never released from inside its own callback.
	dispatcher.Register(endCombo, func(hotkey.Event) error {
		fmt.Fprintln(a.out, "\nEnd hotkey pressed! Stopping logger...")
		sess.End()
		return nil
	}, hotkey.Buffered(1), hotkey.Logged())

	if err := dispatcher.Bind(a.registrar); err != nil {
		sess.End()
		return err
	}

	fmt.Fprintln(a.out, "\nEDL Timestamp Logger Started!")
	fmt.Fprintf(a.out, "Press '%s' to add timestamps\n", markerCombo)
	fmt.Fprintf(a.out, "Press '%s' to stop and exit\n", endCombo)
	fmt.Fprintf(a.out, "Logging to: %s\n", sess.OutputPath())
	fmt.Fprintln(a.out, strings.Repeat("-", 50))

	select {
	case <-sess.Done():
	case <-ctx.Done():
		fmt.Fprintln(a.out, "\nStopping logger...")
		sess.End()
	}

	if err := a.registrar.UnregisterAll(); err != nil {
		logger.Warn("Failed to release hotkeys", "error", err)
	}

	summary := sess.End()
	fmt.Fprintf(a.out, "Total markers added: %d\n", summary.Markers)
	fmt.Fprintf(a.out, "EDL file saved: %s\n", summary.OutputPath)
	if summary.Failed > 0 {
		logger.Warn("Some markers could not be written", "failed", summary.Failed)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := provider.Flush(flushCtx); err != nil {
		logger.Warn("Failed to flush logs", "error", err)
	}
	return nil
}

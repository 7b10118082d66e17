// Thermal Viewer - live thermal imaging pipeline
// License: MIT

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/maruel/interrupt"
	"github.com/sirupsen/logrus"

	"thermal-viewer/internal/capture"
	"thermal-viewer/internal/config"
	"thermal-viewer/internal/pipeline"
)

const (
	AppName    = "Thermal Viewer"
	AppVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run() error {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := flag.String("config", "thermal-viewer.yaml", "Path to the settings file")
	sourceName := flag.String("source", "synthetic", "Capture source to open")
	recordPath := flag.String("record", "", "Record the session to this video file")
	snapshotPath := flag.String("snapshot", "", "Save a snapshot to this image file on exit")
	statsEvery := flag.Duration("stats-interval", 5*time.Second, "How often to log frame statistics")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"config":     *configPath,
	}).Info("Starting Thermal Viewer")

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	coord := pipeline.New(logger, settings)
	defer coord.Close()

	watcher, err := config.NewWatcher(logger, *configPath, coord.UpdateSettings)
	if err != nil {
		// Live reload is a convenience; a failed watch is not fatal.
		logger.WithError(err).Warn("settings watching disabled")
	} else {
		defer watcher.Close()
	}

	source, err := capture.Open(logger, *sourceName, settings.Video.FPS)
	if err != nil {
		return err
	}
	session := pipeline.NewSession(logger, source, coord)
	if err := session.Start(); err != nil {
		return err
	}
	defer session.Stop()

	if *recordPath != "" {
		if err := coord.StartRecording(*recordPath); err != nil {
			return err
		}
	}

	interrupt.HandleCtrlC()
	ticker := time.NewTicker(*statsEvery)
	defer ticker.Stop()

	for !interrupt.IsSet() {
		select {
		case <-interrupt.Channel:
		case <-ticker.C:
			logStats(logger, coord)
		}
	}
	logger.Info("interrupt received, shutting down")

	session.Stop()

	if *snapshotPath != "" {
		if err := coord.SaveSnapshot(*snapshotPath); err != nil {
			logger.WithError(err).Error("snapshot failed")
		}
	}

	if coord.Recording() {
		finished := make(chan struct{})
		coord.StopRecording(func(path string, err error) {
			if err != nil {
				logger.WithError(err).Error("recording finalize failed")
			} else {
				written, dropped := coord.RecordingCounts()
				logger.WithFields(logrus.Fields{
					"path":    path,
					"written": written,
					"dropped": dropped,
				}).Info("recording finished")
			}
			close(finished)
		})
		select {
		case <-finished:
		case <-time.After(10 * time.Second):
			logger.Warn("recording finalize timed out")
		}
	}

	logger.Info("Application shutting down gracefully")
	return nil
}

func logStats(logger *logrus.Logger, coord *pipeline.Coordinator) {
	processed, dropped := coord.Counts()
	fields := logrus.Fields{
		"processed": processed,
		"dropped":   dropped,
	}
	if res := coord.Latest(); res != nil {
		fields["min_c"] = fmt.Sprintf("%.1f", res.Stats.Min)
		fields["max_c"] = fmt.Sprintf("%.1f", res.Stats.Max)
		fields["avg_c"] = fmt.Sprintf("%.1f", res.Stats.Average)
	}
	logger.WithFields(fields).Info("pipeline status")
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

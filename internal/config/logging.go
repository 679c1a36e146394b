package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// NewLogger builds the service logger from LOG_LEVEL and, when LOG_FILE is
// set, adds a rotating JSON file hook.
func NewLogger() (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level := logrus.InfoLevel
	if Development() {
		level = logrus.DebugLevel
	}
	if s, ok := os.LookupEnv("LOG_LEVEL"); ok {
		var err error
		if level, err = logrus.ParseLevel(s); err != nil {
			return nil, fmt.Errorf("unable to parse LOG_LEVEL: %w", err)
		}
	}
	log.SetLevel(level)

	if Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	path, ok := os.LookupEnv("LOG_FILE")
	if !ok || path == "" {
		return log, nil
	}

	maxSize, err := lookupInt("LOG_FILE_MAX_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}
	maxBackups, err := lookupInt("LOG_FILE_MAX_BACKUPS", 5)
	if err != nil {
		return nil, err
	}
	maxAge, err := lookupInt("LOG_FILE_MAX_AGE_DAYS", 30)
	if err != nil {
		return nil, err
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create log file hook: %w", err)
	}
	log.AddHook(hook)

	return log, nil
}

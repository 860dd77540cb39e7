// Package logger holds the process-wide structured logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
	log.SetOutput(os.Stdout)
}

// L returns the shared logger.
func L() *logrus.Logger {
	return log
}

// SetLevel adjusts the global log level from its configured name; unknown
// names keep the current level.
func SetLevel(name string) {
	if lvl, err := logrus.ParseLevel(name); err == nil {
		log.SetLevel(lvl)
	}
}

// WithComponent returns an entry tagged with the originating component.
func WithComponent(name string) *logrus.Entry {
	return log.WithField("component", name)
}

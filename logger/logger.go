package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevelEnv names the environment variable holding the log level, e.g. "debug".
const LogLevelEnv = "METRONIZER_LOG_LEVEL"

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

// GetProjectLogger returns the logger shared by every package of the project.
func GetProjectLogger() *logrus.Logger {
	once.Do(func() {
		projectLogger = newProjectLogger()
	})
	return projectLogger
}

func newProjectLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.InfoLevel
	if raw := os.Getenv(LogLevelEnv); raw != "" {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			level = parsed
		} else {
			l.Warnf("ignoring %s=%q: %v", LogLevelEnv, raw, err)
		}
	}
	l.SetLevel(level)
	return l
}

package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development gets colored
// text at debug level; everything else gets JSON at info. A non-empty level
// ("warn", "debug", ...) overrides the default.
func NewLogger(appName, env, level string) *logrus.Logger {
	return newLogger(os.Stdout, appName, env, level)
}

func newLogger(out io.Writer, appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("unknown log level, keeping default")
		}
	}
	logger.AddHook(appHook{app: appName})
	logger.WithField("env", env).Info("logger initialized")
	return logger
}

// appHook stamps every entry with the binary name.
type appHook struct{ app string }

func (appHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.app
	}
	return nil
}

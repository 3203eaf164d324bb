package logger

import (
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

/* Public */

// Init configures the standard logger. verbosity maps to info (0), debug (1) and
// trace (2+). When logFilePath is set, a rotated plain-text copy of the log is
// written there as well.
func Init(verbosity int, logFilePath string) error {
	switch verbosity {
	case 0:
		logrus.SetLevel(logrus.InfoLevel)
	case 1:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.TraceLevel)
	}

	logrus.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})

	if logFilePath != "" {
		logrus.AddHook(newFileHook(logFilePath))
	}

	return nil
}

func GetLogger(prefix string) *logrus.Entry {
	return logrus.WithField("prefix", prefix)
}

/* File hook */

type fileHook struct {
	writer    *lumberjack.Logger
	formatter logrus.Formatter
}

func newFileHook(filePath string) *fileHook {
	return &fileHook{
		writer: &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    5,
			MaxBackups: 5,
			MaxAge:     14,
		},
		formatter: &prefixed.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			DisableColors:   true,
		},
	}
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = h.writer.Write(b)
	return err
}

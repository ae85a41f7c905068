package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log общий логгер процесса. До вызова Init пишет в stderr с уровнем info.
var Log = logrus.New()

// Init настраивает структурированный логгер.
func Init(level string, production bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, текст для development
	if production {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	SetTextFormatter()
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Discard отключает вывод логов. Используется в тестах.
func Discard() {
	Log.SetOutput(io.Discard)
}

// GooseLogger направляет вывод миграций goose в общий логгер.
type GooseLogger struct{}

func (GooseLogger) Printf(format string, v ...interface{}) {
	Log.Infof(format, v...)
}

func (GooseLogger) Fatalf(format string, v ...interface{}) {
	Log.Fatalf(format, v...)
}

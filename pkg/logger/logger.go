package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер приложения.
var Log *logrus.Logger

// Init настраивает глобальный логгер. Вызывается один раз из main.
func Init() {
	Log = logrus.New()

	// Уровень логирования берем из окружения. По умолчанию "info",
	// для отладки сетевого цикла удобно выставить "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// "json" - для продакшена и сбора логов, "text" - для разработки.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// WithComponent возвращает entry с полем component (vision, camera, robot...),
// чтобы логи подсистем можно было фильтровать.
func WithComponent(name string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("component", name)
}

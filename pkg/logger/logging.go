package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger

// Init sets up the process logger writing to both stdout and logs/server.log.
func Init() {
	logDir := "logs"
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		panic(err)
	}

	file, err := os.OpenFile("logs/server.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(err)
	}

	multi := zerolog.MultiLevelWriter(os.Stdout, file)

	Log = zerolog.New(multi).With().Timestamp().Logger()
}

func init() {
	// Default to stdout only until Init is called; keeps the package usable
	// from tests without touching the filesystem.
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

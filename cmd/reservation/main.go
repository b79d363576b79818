package main

import (
	stdLog "log"
	"time"

	"github.com/ThevergeOn/reservation-app/internal/app"
	"github.com/ThevergeOn/reservation-app/internal/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("no .env file, reading config from environment")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("app run ", err)
	}
}

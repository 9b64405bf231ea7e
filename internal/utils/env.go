package utils

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// InitLogger loads .env before building the logger, so ENV set there
// selects the logger mode as well as the config.
func InitLogger() (*zap.Logger, error) {
	envErr := godotenv.Load()

	logger, err := NewLogger(os.Getenv("ENV"))
	if err != nil {
		return nil, err
	}

	if envErr != nil {
		logger.Warn("ENV file not found or failed to load, using defaults")
	} else {
		logger.Info("ENV file loaded successfully")
	}
	return logger, nil
}

// NewLogger returns a console logger for dev and a JSON production logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

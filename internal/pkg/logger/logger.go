package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds the application logger. Non-production environments get the
// human-readable development encoder.
func New(appEnv string) (*zap.Logger, error) {
	switch strings.ToLower(appEnv) {
	case "prod", "production", "release":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}

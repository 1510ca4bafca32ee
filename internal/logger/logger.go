package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON production logger for "production"/"prod" and a console development
// logger otherwise.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "production", "prod":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}

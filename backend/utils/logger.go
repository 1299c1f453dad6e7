package utils

import "go.uber.org/zap"

// InitLogger builds the application logger. Mode "production" switches to the
// JSON encoder; anything else gets the development console encoder.
func InitLogger(mode string) (*zap.Logger, error) {
	if mode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

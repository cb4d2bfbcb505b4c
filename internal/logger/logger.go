package logger

import "go.uber.org/zap"

// NewNamed builds a named zap logger for the given environment: development
// gets the console encoder with debug level, everything else structured
// JSON at info level.
func NewNamed(env, name string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}

package observability

import "go.uber.org/zap"

// Logger is the process-wide structured logger. It defaults to a no-op
// logger so packages can log before InitLogger runs (and in tests that
// never run it).
var Logger = zap.NewNop()

func InitLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

package logger

import (
	"time"

	"github.com/btcsuite/btclog"
)

// LogAndMeasureExecutionTime logs that functionName started and returns a
// function that logs how long it took once called.
func LogAndMeasureExecutionTime(log btclog.Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s start", functionName)
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}

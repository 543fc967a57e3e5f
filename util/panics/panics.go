package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/Li-GuangCheng/fruitchain/infrastructure/logger"
	"github.com/btcsuite/btclog"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic recovers panics, logs them and exits. It must be deferred
// directly by the function it guards.
func HandlePanic(log btclog.Logger) {
	err := recover()
	if err == nil {
		return
	}

	reason := fmt.Sprintf("Fatal error: %+v", err)
	exit(log, reason, debug.Stack())
}

func exit(log btclog.Logger, reason string, stackTrace []byte) {
	exitHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Exiting: %s", reason)
		log.Criticalf("Stack trace: %s", stackTrace)
		logger.CloseLogRotator()
		close(exitHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't exit gracefully.")
	case <-exitHandlerDone:
	}
	os.Exit(1)
}

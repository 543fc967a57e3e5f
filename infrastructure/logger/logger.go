// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logger

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const (
	// logRotatorThresholdKB is the size a log file may reach before it is
	// rotated.
	logRotatorThresholdKB = 10 * 1024

	// logRotatorMaxRolls is the number of rotated log files kept around.
	logRotatorMaxRolls = 3
)

// logWriter implements an io.Writer that outputs to both the console output
// and the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	rotatorMtx.Lock()
	defer rotatorMtx.Unlock()
	consoleOutput.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem. A single backend logger is created and all subsystem
// loggers created from it will write to the backend. When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
//
// Loggers can not be used before the log rotator has been initialized with a
// log file. This must be performed early during application startup by
// calling InitLogRotator.
var (
	// backendLog is the logging backend used to create all subsystem loggers.
	// The backend must not be used before the log rotator has been initialized,
	// or data races and/or nil pointer dereferences will occur.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs. It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator
	rotatorMtx sync.Mutex

	// consoleOutput receives every log line besides the rotator. It is
	// guarded by rotatorMtx.
	consoleOutput io.Writer = os.Stdout

	bstrLog = backendLog.Logger(SubsystemTags.BSTR)
	bvalLog = backendLog.Logger(SubsystemTags.BVAL)
	fctlLog = backendLog.Logger(SubsystemTags.FCTL)
	ldbLog  = backendLog.Logger(SubsystemTags.LDB)
	pbdbLog = backendLog.Logger(SubsystemTags.PBDB)
	dtbsLog = backendLog.Logger(SubsystemTags.DTBS)
)

// SubsystemTags is an enum of all sub system tags
var SubsystemTags = struct {
	BSTR,
	BVAL,
	FCTL,
	LDB,
	PBDB,
	DTBS string
}{
	BSTR: "BSTR",
	BVAL: "BVAL",
	FCTL: "FCTL",
	LDB:  "LDB",
	PBDB: "PBDB",
	DTBS: "DTBS",
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	SubsystemTags.BSTR: bstrLog,
	SubsystemTags.BVAL: bvalLog,
	SubsystemTags.FCTL: fctlLog,
	SubsystemTags.LDB:  ldbLog,
	SubsystemTags.PBDB: pbdbLog,
	SubsystemTags.DTBS: dtbsLog,
}

// InitLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory. It must be called before the
// package-global log rotater variables are used.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Errorf("failed to create log directory: %s", err)
		}
	}
	r, err := rotator.New(logFile, logRotatorThresholdKB, false, logRotatorMaxRolls)
	if err != nil {
		return errors.Errorf("failed to create file rotator: %s", err)
	}

	rotatorMtx.Lock()
	defer rotatorMtx.Unlock()
	if logRotator != nil {
		logRotator.Close()
	}
	logRotator = r
	return nil
}

// SetConsoleOutput redirects the console copy of every log line to w.
// Commands whose standard output is their result send logs to os.Stderr.
func SetConsoleOutput(w io.Writer) {
	rotatorMtx.Lock()
	defer rotatorMtx.Unlock()
	consoleOutput = w
}

// CloseLogRotator closes the log rotator, if one was initialized.
func CloseLogRotator() {
	rotatorMtx.Lock()
	defer rotatorMtx.Unlock()
	if logRotator != nil {
		logRotator.Close()
		logRotator = nil
	}
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) {
	// Ignore invalid subsystems.
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level. It returns an error if the level is not a valid log level.
func SetLogLevels(logLevel string) error {
	if !ValidLogLevel(logLevel) {
		return errors.Errorf("the specified log level [%s] is invalid", logLevel)
	}

	// Configure all sub-systems with the new logging level. Dynamically
	// create loggers as needed.
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
	return nil
}

// ValidLogLevel returns whether or not logLevel is a valid debug log level.
func ValidLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	// Convert the subsystemLoggers map keys to a slice.
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// Get returns a logger of a specific sub system
func Get(tag string) (logger btclog.Logger, ok bool) {
	logger, ok = subsystemLoggers[tag]
	return
}

// ParseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
func ParseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		return SetLogLevels(debugLevel)
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "The specified debug level contains an invalid " +
				"subsystem/level pair [%s]"
			return errors.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := Get(subsysID); !exists {
			str := "The specified subsystem [%s] is invalid -- " +
				"supported subsytems %s"
			return errors.Errorf(str, subsysID, strings.Join(SupportedSubsystems(), ", "))
		}

		// Validate log level.
		if !ValidLogLevel(logLevel) {
			str := "The specified debug level [%s] is invalid"
			return errors.Errorf(str, logLevel)
		}

		SetLogLevel(subsysID, logLevel)
	}
	return nil
}

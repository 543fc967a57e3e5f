package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database/drivers"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/logger"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultDataDirname = "data"
	defaultLogDirname  = "logs"
	defaultLogFilename = "fruitchain.log"
	defaultLogLevel    = "info"
	defaultDBType      = drivers.LevelDB
)

var (
	// DefaultAppDir is the default home directory for fruitchain.
	DefaultAppDir = btcutil.AppDataDir("fruitchain", false)
)

// Flags defines the configuration options shared by fruitchain commands.
type Flags struct {
	AppDir     string `short:"b" long:"appdir" description:"Directory to store data"`
	DBType     string `long:"dbtype" description:"Database backend to use {leveldb, pebble}"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	LogLevel   string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	NoLogFiles bool   `long:"nologfiles" description:"Disable logging to file"`
}

// Config is the resolved configuration: the parsed flags plus the paths
// derived from them.
type Config struct {
	*Flags

	// DataDir is where the database lives. It is namespaced by database
	// type so that switching backends never mixes their files.
	DataDir string

	// LogFile is the path of the rotated log file. It is empty when
	// NoLogFiles is set.
	LogFile string
}

// DefaultFlags returns the flags every option defaults to.
func DefaultFlags() *Flags {
	return &Flags{
		AppDir:   DefaultAppDir,
		DBType:   defaultDBType,
		LogLevel: defaultLogLevel,
	}
}

// Parse parses args on top of DefaultFlags and resolves the result. It
// returns the arguments that were not consumed as flags.
func Parse(args []string) (*Config, []string, error) {
	cfgFlags := DefaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := cfgFlags.Resolve()
	if err != nil {
		return nil, nil, err
	}
	return cfg, remainingArgs, nil
}

// Resolve validates the flags, applies the requested log levels and derives
// the data and log paths.
func (cfgFlags *Flags) Resolve() (*Config, error) {
	if !drivers.IsSupported(cfgFlags.DBType) {
		str := "the specified database type [%s] is invalid -- supported types %s"
		return nil, errors.Errorf(str, cfgFlags.DBType, strings.Join(drivers.SupportedTypes(), ", "))
	}

	err := logger.ParseAndSetDebugLevels(cfgFlags.LogLevel)
	if err != nil {
		return nil, err
	}

	cfgFlags.AppDir = cleanAndExpandPath(cfgFlags.AppDir)
	if cfgFlags.LogDir == "" {
		cfgFlags.LogDir = filepath.Join(cfgFlags.AppDir, defaultLogDirname)
	}
	cfgFlags.LogDir = cleanAndExpandPath(cfgFlags.LogDir)

	cfg := &Config{
		Flags:   cfgFlags,
		DataDir: filepath.Join(cfgFlags.AppDir, defaultDataDirname, cfgFlags.DBType),
	}
	if !cfgFlags.NoLogFiles {
		cfg.LogFile = filepath.Join(cfgFlags.LogDir, defaultLogFilename)
	}
	return cfg, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

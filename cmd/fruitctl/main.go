package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Li-GuangCheng/fruitchain/infrastructure/logger"
	"github.com/Li-GuangCheng/fruitchain/util/panics"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain runs the sub-command selected by args and returns the process
// exit code. Command results go to stdout, logs and errors to stderr.
func realMain(args []string, stdout, stderr io.Writer) int {
	defer panics.HandlePanic(log)

	logger.SetConsoleOutput(stderr)

	subCmd, cfg, err := parseCommandLine(args)
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	err = run(subCmd, cfg, stdout)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func run(subCmd string, cfg interface{}, out io.Writer) error {
	switch subCmd {
	case decodeHeaderSubCmd:
		return decodeHeader(cfg.(*decodeHeaderConfig), out)
	case decodeBlockSubCmd:
		return decodeBlock(cfg.(*decodeBlockConfig), out)
	case headerHashSubCmd:
		return headerHash(cfg.(*headerHashConfig), out)
	case fruitsHashSubCmd:
		return fruitsHash(cfg.(*fruitsHashConfig), out)
	case weightSubCmd:
		return weight(cfg.(*weightConfig), out)
	case locatorHashSubCmd:
		return locatorHash(cfg.(*locatorHashConfig), out)
	case checkBlockSubCmd:
		return checkBlock(cfg.(*checkBlockConfig), out)
	case storeBlockSubCmd:
		return storeBlock(cfg.(*storeBlockConfig), out)
	case getBlockSubCmd:
		return getBlock(cfg.(*getBlockConfig), out)
	case listBlocksSubCmd:
		return listBlocks(cfg.(*listBlocksConfig), out)
	default:
		return errors.Errorf("Unknown sub-command '%s'", subCmd)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s\n", err)
}

package main

import (
	"github.com/Li-GuangCheng/fruitchain/infrastructure/config"
	"github.com/jessevdk/go-flags"
)

const (
	decodeHeaderSubCmd = "decode-header"
	decodeBlockSubCmd  = "decode-block"
	headerHashSubCmd   = "header-hash"
	fruitsHashSubCmd   = "fruits-hash"
	weightSubCmd       = "weight"
	locatorHashSubCmd  = "locator-hash"
	checkBlockSubCmd   = "check-block"
	storeBlockSubCmd   = "store-block"
	getBlockSubCmd     = "get-block"
	listBlocksSubCmd   = "list-blocks"
)

type decodeHeaderConfig struct {
	Hex  string `long:"hex" short:"x" description:"The serialized header (encoded in hex)" required:"true"`
	Dump bool   `long:"dump" description:"Dump every field instead of the summary line"`
}

type decodeBlockConfig struct {
	Hex  string `long:"hex" short:"x" description:"The serialized block (encoded in hex)" required:"true"`
	Dump bool   `long:"dump" description:"Dump every field instead of the summary"`
}

type headerHashConfig struct {
	Hex string `long:"hex" short:"x" description:"The serialized header (encoded in hex)" required:"true"`
}

type fruitsHashConfig struct {
	Hex string `long:"hex" short:"x" description:"The serialized block (encoded in hex)" required:"true"`
}

type weightConfig struct {
	Hex string `long:"hex" short:"x" description:"The serialized block (encoded in hex)" required:"true"`
}

type locatorHashConfig struct {
	Hashes []string `long:"hash" description:"A block hash of the locator, most recent first. May be repeated"`
}

type checkBlockConfig struct {
	Hex string `long:"hex" short:"x" description:"The serialized block (encoded in hex)" required:"true"`
}

type storeBlockConfig struct {
	Hex string `long:"hex" short:"x" description:"The serialized block (encoded in hex)" required:"true"`
	config.Flags
}

type getBlockConfig struct {
	Hash string `long:"hash" description:"The hash of the block to fetch" required:"true"`
	Dump bool   `long:"dump" description:"Dump every field instead of the summary"`
	config.Flags
}

type listBlocksConfig struct {
	config.Flags
}

// parseCommandLine parses args into the configuration of the selected
// sub-command.
func parseCommandLine(args []string) (subCommand string, cfg interface{}, err error) {
	parser := flags.NewParser(&struct{}{}, flags.PrintErrors|flags.HelpFlag)

	decodeHeaderConf := &decodeHeaderConfig{}
	parser.AddCommand(decodeHeaderSubCmd, "Decodes a block header",
		"Decodes a serialized block header and prints it", decodeHeaderConf)

	decodeBlockConf := &decodeBlockConfig{}
	parser.AddCommand(decodeBlockSubCmd, "Decodes a block",
		"Decodes a serialized block and prints its header, transactions and fruits", decodeBlockConf)

	headerHashConf := &headerHashConfig{}
	parser.AddCommand(headerHashSubCmd, "Prints the hash of a block header",
		"Prints the double SHA-256 of a serialized block header", headerHashConf)

	fruitsHashConf := &fruitsHashConfig{}
	parser.AddCommand(fruitsHashSubCmd, "Prints the fruits hash of a block",
		"Computes the fruits hash of a serialized block and compares it to the one in its header", fruitsHashConf)

	weightConf := &weightConfig{}
	parser.AddCommand(weightSubCmd, "Prints the weight of a block",
		"Prints the sizes and the weight of a serialized block", weightConf)

	locatorHashConf := &locatorHashConfig{}
	parser.AddCommand(locatorHashSubCmd, "Prints the hash of a block locator",
		"Builds a block locator from the given hashes and prints its hash and encodings", locatorHashConf)

	checkBlockConf := &checkBlockConfig{}
	parser.AddCommand(checkBlockSubCmd, "Runs the sanity checks of a block",
		"Runs the context-free checks of a serialized block", checkBlockConf)

	storeBlockConf := &storeBlockConfig{Flags: *config.DefaultFlags()}
	parser.AddCommand(storeBlockSubCmd, "Stores a block",
		"Checks a serialized block and stores it in the database", storeBlockConf)

	getBlockConf := &getBlockConfig{Flags: *config.DefaultFlags()}
	parser.AddCommand(getBlockSubCmd, "Fetches a stored block",
		"Fetches a block from the database and prints it", getBlockConf)

	listBlocksConf := &listBlocksConfig{Flags: *config.DefaultFlags()}
	parser.AddCommand(listBlocksSubCmd, "Lists stored blocks",
		"Prints the hash of every block in the database", listBlocksConf)

	_, err = parser.ParseArgs(args)
	if err != nil {
		return "", nil, err
	}

	switch parser.Command.Active.Name {
	case decodeHeaderSubCmd:
		cfg = decodeHeaderConf
	case decodeBlockSubCmd:
		cfg = decodeBlockConf
	case headerHashSubCmd:
		cfg = headerHashConf
	case fruitsHashSubCmd:
		cfg = fruitsHashConf
	case weightSubCmd:
		cfg = weightConf
	case locatorHashSubCmd:
		cfg = locatorHashConf
	case checkBlockSubCmd:
		cfg = checkBlockConf
	case storeBlockSubCmd:
		cfg = storeBlockConf
	case getBlockSubCmd:
		cfg = getBlockConf
	case listBlocksSubCmd:
		cfg = listBlocksConf
	}

	return parser.Command.Active.Name, cfg, nil
}

// protogen generates version catalog sources from minecraft-data
// protocol.json files. Typical use:
//
//	protogen --protocol 1.14.4/protocol.json --state status \
//	    --package v1_14_4 --mappings mappings.yaml --out status.go
//
// Packets built from protodef constructs the wire schema cannot express
// are skipped with a warning; run with --verbose to see why.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/blockwire/mcproto/internal/protogen"
	"github.com/blockwire/mcproto/xlog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		protocolPath string
		mappingsPath string
		state        string
		pkg          string
		outPath      string
		verbose      bool
	)
	flagSet := pflag.NewFlagSet("protogen", pflag.ContinueOnError)
	flagSet.StringVar(&protocolPath, "protocol", "", "path to a minecraft-data protocol.json")
	flagSet.StringVar(&mappingsPath, "mappings", "", "YAML file with packet renames and field overrides")
	flagSet.StringVar(&state, "state", "", "protocol state: handshaking, status, login or play")
	flagSet.StringVar(&pkg, "package", "", "package name for the generated file")
	flagSet.StringVar(&outPath, "out", "", "output file (default stdout)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log skip reasons and the parse summary")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if protocolPath == "" || state == "" || pkg == "" {
		flagSet.PrintDefaults()
		return fmt.Errorf("--protocol, --state and --package are required")
	}
	level := xlog.LevelWarn
	if verbose {
		level = xlog.LevelDebug
	}
	xlog.SetDefault(xlog.NewText(level))

	mappings, err := protogen.LoadMappings(mappingsPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(protocolPath)
	if err != nil {
		return err
	}
	proto, err := protogen.Parse(data, state, pkg, mappings)
	if err != nil {
		return err
	}
	xlog.Info("parsed protocol", xlog.Version(pkg), xlog.State(state),
		xlog.Int("serverbound", len(proto.ServerBound)), xlog.Int("clientbound", len(proto.ClientBound)))
	src, err := protogen.Generate(proto)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	return os.WriteFile(outPath, src, 0o644)
}

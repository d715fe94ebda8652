package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/nao1215/sheetdb/cmd/sheetdb/commands"
	"github.com/rs/zerolog/log"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func init() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.NewRootCmd(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"

	"sndcds/uranus-tools/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := cli.NewImportStationsCommand()
	cmd.SetContext(ctx)

	code := cli.Execute(cmd)
	stop()
	os.Exit(code)
}

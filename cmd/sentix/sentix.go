package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/sentix/runner"
)

func main() {
	// Parse the command line flags and read config files
	options := runner.ParseOptions()

	sentixRunner, err := runner.New(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}
	defer sentixRunner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sentixRunner.Run(ctx); err != nil {
		gologger.Fatal().Msgf("Could not run sentix: %s\n", err)
	}
}

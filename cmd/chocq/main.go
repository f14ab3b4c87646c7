// Command chocq queries a chocolate-bar reviews database with short
// space-separated commands.
//
// Usage:
//
//	chocq                                  # interactive prompt
//	chocq q bars country=BR source ratings bottom 8
//	chocq q companies region=Europe number_of_bars 12 --format json
//	chocq sql countries source cocoa
//	chocq vocab
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// Command tallerctl runs maintenance tasks against the workshop database
// and checks import files offline.
//
//	tallerctl migrate
//	tallerctl seed
//	tallerctl validate vehiculos.xlsx
//	tallerctl import --direct vehiculos.xlsx
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitsuhiko/machfind/internal/cli"
	"github.com/mitsuhiko/machfind/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		msgs := errors.Chain(err)
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", msgs[0])
		for _, cause := range msgs[1:] {
			_, _ = fmt.Fprintf(os.Stderr, "  caused by: %s\n", cause)
		}
		os.Exit(1)
	}
}

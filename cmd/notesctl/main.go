// Package main реализует консольный клиент заметок notesctl.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notesapp/internal/client/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCmd(newCLI(os.Stdout, os.Stderr))
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		if _, writeErr := fmt.Fprint(os.Stderr, render.Error(err)); writeErr != nil {
			panic(writeErr)
		}
		os.Exit(1)
	}
}

package main

import (
	"context"

	"github.com/mcdev12/brickgame/go/internal/mirror"
)

// startMirror serves the spectator stream when enabled. The returned channel
// yields the server's exit error once ctx is done.
func startMirror(ctx context.Context, services *Services) <-chan error {
	errCh := make(chan error, 1)
	if services.Mirror == nil {
		close(errCh)
		return errCh
	}

	server := mirror.NewServer(services.MirrorAddr, services.Mirror)
	go func() {
		errCh <- server.Run(ctx)
		close(errCh)
	}()
	return errCh
}

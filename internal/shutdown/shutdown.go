package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a root context that is cancelled on SIGINT or SIGTERM. The
// second return restores default signal handling.
func New() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

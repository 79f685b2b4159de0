package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SetupSignalHandlerWithLogger returns a context that is cancelled on the
// first SIGINT or SIGTERM. A second signal exits immediately, for shutdowns
// that hang.
func SetupSignalHandlerWithLogger(logger zerolog.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down gracefully")
		cancel()

		sig = <-sigChan
		logger.Warn().Str("signal", sig.String()).Msg("Received second signal, exiting")
		os.Exit(1)
	}()

	return ctx
}

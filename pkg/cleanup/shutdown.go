// Closes open connections and live streams before shutting down JackStatz.
// Inspired from https://medium.com/tokopedia-engineering/gracefully-shutdown-your-go-application-9e7d5c73b5ac

package cleanup

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackpalacios/jackstatz/pkg/log"
)

// operation is a clean up function standard.
type Operation func(ctx context.Context) error

// GracefulShutdown waits for a termination signal and performs the clean-up operations.
// Phases run one after the other, operations inside a phase run concurrently.
// The returned channel is closed once every phase is done.
func GracefulShutdown(ctx context.Context, logger log.Logger, timeout time.Duration, phases ...map[string]Operation) <-chan struct{} {
	wait := make(chan struct{})

	// buffered channel to receive shutdown signal, registered before returning so no signal is missed
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		sig := <-s
		signal.Stop(s)
		logger.Warn().Str("signal", sig.String()).Msg("Graceful shutdown in progress.")

		// Force exit after timeout duration has been elapsed
		force := time.AfterFunc(timeout, func() {
			logger.Warn().Float64("timeout_seconds", timeout.Seconds()).Msg("Timeout elapsed. Forcing shutdown!")
			os.Exit(3)
		})
		defer force.Stop()

		opctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		for _, operations := range phases {
			var wg sync.WaitGroup
			for opname, op := range operations {
				wg.Add(1)
				go func(opname string, op Operation) {
					defer wg.Done()
					logger.Info().Msgf("Shutting down: %s", opname)
					if err := op(opctx); err != nil {
						logger.Error().Err(err).Msgf("%s shutdown failed.", opname)
						return
					}
					logger.Info().Msgf("%s shutdown completed.", opname)
				}(opname, op)
			}
			// Wait for the phase to finish
			wg.Wait()
		}
		close(wait)
	}()

	return wait
}

package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShutdownFunc is a function to call during shutdown
type ShutdownFunc func(context.Context) error

// ServerGroup runs a set of HTTP servers (API listener, ops listener)
// as one unit: all start together, and a SIGINT/SIGTERM or a failing
// server drains every listener within the shutdown timeout and then
// runs the registered shutdown functions in parallel.
type ServerGroup struct {
	logger  *Logger
	timeout time.Duration

	mu            sync.Mutex
	names         []string
	servers       []*http.Server
	shutdownFuncs []ShutdownFunc
}

// NewServerGroup creates a server group. A non-positive timeout
// defaults to 30 seconds.
func NewServerGroup(logger *Logger, timeout time.Duration) *ServerGroup {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ServerGroup{
		logger:  logger,
		timeout: timeout,
	}
}

// Add registers a named server to run. Must be called before Run.
func (g *ServerGroup) Add(name string, srv *http.Server) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.names = append(g.names, name)
	g.servers = append(g.servers, srv)
}

// RegisterShutdownFunc registers a function to call during shutdown
// (store close, tracer flush). Functions run in parallel.
func (g *ServerGroup) RegisterShutdownFunc(fn ShutdownFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shutdownFuncs = append(g.shutdownFuncs, fn)
}

// Run blocks until all servers have stopped. It returns nil on a clean
// signal-initiated shutdown, or the first serve/drain error otherwise.
func (g *ServerGroup) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)

	g.mu.Lock()
	names := g.names
	servers := g.servers
	g.mu.Unlock()

	for i := range servers {
		name, srv := names[i], servers[i]
		eg.Go(func() error {
			g.logger.WithField("addr", srv.Addr).Infof("%s server listening", name)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}

	eg.Go(func() error {
		<-egCtx.Done()
		return g.drain()
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	g.logger.Info("Graceful shutdown complete")
	return nil
}

// drain shuts the servers down and runs the shutdown functions, all
// bounded by the group timeout.
func (g *ServerGroup) drain() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	g.logger.Info("Starting graceful shutdown")

	g.mu.Lock()
	names := g.names
	servers := g.servers
	funcs := g.shutdownFuncs
	g.mu.Unlock()

	var errs []error
	for i := range servers {
		g.logger.Infof("Shutting down %s server", names[i])
		if err := servers[i].Shutdown(ctx); err != nil {
			g.logger.WithError(err).Errorf("%s server shutdown error", names[i])
			errs = append(errs, fmt.Errorf("%s server shutdown: %w", names[i], err))
		}
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(funcs))
	for i, fn := range funcs {
		wg.Add(1)
		go func(index int, shutdownFn ShutdownFunc) {
			defer wg.Done()
			if err := shutdownFn(ctx); err != nil {
				g.logger.WithError(err).Errorf("Shutdown function %d failed", index)
				errChan <- err
			}
		}(i, fn)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		g.logger.Warn("Shutdown timeout reached, forcing shutdown")
		return errors.New("shutdown timeout reached")
	}

	close(errChan)
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors", len(errs))
	}
	return nil
}

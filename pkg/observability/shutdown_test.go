package observability

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *Logger {
	return NewLogger(ErrorLevel, io.Discard)
}

func TestNewServerGroup_DefaultTimeout(t *testing.T) {
	g := NewServerGroup(testLogger(), 0)
	if g.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want %v", g.timeout, 30*time.Second)
	}

	g = NewServerGroup(testLogger(), 5*time.Second)
	if g.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want %v", g.timeout, 5*time.Second)
	}
}

func TestServerGroup_CleanShutdown(t *testing.T) {
	g := NewServerGroup(testLogger(), 2*time.Second)
	g.Add("api", &http.Server{Addr: "127.0.0.1:0"})

	var called atomic.Bool
	g.RegisterShutdownFunc(func(ctx context.Context) error {
		called.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- g.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if !called.Load() {
		t.Error("shutdown function was not called")
	}
}

func TestServerGroup_ListenError(t *testing.T) {
	// Hold a port open so the server cannot bind it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	g := NewServerGroup(testLogger(), 2*time.Second)
	g.Add("api", &http.Server{Addr: ln.Addr().String()})

	errCh := make(chan error, 1)
	go func() { errCh <- g.Run(context.Background()) }()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected an error from a server that cannot bind")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after listen failure")
	}
}

func TestServerGroup_ShutdownFuncError(t *testing.T) {
	g := NewServerGroup(testLogger(), 2*time.Second)
	g.Add("api", &http.Server{Addr: "127.0.0.1:0"})
	g.RegisterShutdownFunc(func(ctx context.Context) error {
		return errors.New("store close failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- g.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected an error from a failing shutdown function")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

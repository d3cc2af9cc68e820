package server

import (
	"context"
	"testing"

	"github.com/teemow/todofewer/internal/msauth"
	"github.com/teemow/todofewer/internal/todo"
)

func TestNewServerContext(t *testing.T) {
	// Point the token cache at an empty directory so no stored tokens
	// are picked up from the environment running the tests.
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := NewServerContext(context.Background(), msauth.Config{ClientID: "client-id"})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if sc.Context() == nil {
		t.Error("Context() returned nil")
	}
	if sc.IsShutdown() {
		t.Error("new context should not be shut down")
	}

	// No token on disk means no client
	if client := sc.TodoClient(); client != nil {
		t.Error("expected nil client without a stored token")
	}
	if client := sc.TodoClientForAccount("work"); client != nil {
		t.Error("expected nil client for unknown account")
	}
}

func TestServerContext_SetTodoClient(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := NewServerContext(context.Background(), msauth.Config{ClientID: "client-id"})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	client := todo.NewClient(nil, todo.WithAccount("work"))
	sc.SetTodoClientForAccount("work", client)

	if got := sc.TodoClientForAccount("work"); got != client {
		t.Error("expected cached client to be returned")
	}

	sc.SetTodoClient(client)
	if got := sc.TodoClient(); got != client {
		t.Error("expected default client to be returned")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := NewServerContext(context.Background(), msauth.Config{ClientID: "client-id"})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after shutdown")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}

	// Second shutdown is a no-op
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/todofewer/internal/instrumentation"
	"github.com/teemow/todofewer/internal/logging"
	"github.com/teemow/todofewer/internal/msauth"
	"github.com/teemow/todofewer/internal/todo"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	oauthConfig msauth.Config
	todoClients map[string]*todo.Client // Maps account name to To Do client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, oauthConfig msauth.Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	todoClients := make(map[string]*todo.Client)

	// Try to create the default client, but don't fail if the token is
	// missing. Clients are lazily initialized when first needed.
	if todo.HasToken() {
		client, err := todo.NewClientForAccount(oauthConfig, msauth.DefaultAccount)
		if err != nil {
			slog.Warn("failed to create To Do client for default account", logging.Err(err))
		} else {
			todoClients[msauth.DefaultAccount] = client
		}
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		oauthConfig: oauthConfig,
		todoClients: todoClients,
		shutdown:    false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// TodoClientForAccount returns the To Do client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) TodoClientForAccount(account string) *todo.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.todoClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !todo.HasTokenForAccount(account) {
		return nil
	}

	client, err := todo.NewClientForAccount(sc.oauthConfig, account)
	if err != nil {
		slog.Warn("failed to create To Do client", logging.Account(account), logging.Err(err))
		return nil
	}

	sc.todoClients[account] = client
	return client
}

// TodoClient returns the To Do client for the default account
func (sc *ServerContext) TodoClient() *todo.Client {
	return sc.TodoClientForAccount(msauth.DefaultAccount)
}

// SetTodoClientForAccount sets the To Do client for a specific account
func (sc *ServerContext) SetTodoClientForAccount(account string, client *todo.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.todoClients[account] = client
}

// SetTodoClient sets the To Do client for the default account
func (sc *ServerContext) SetTodoClient(client *todo.Client) {
	sc.SetTodoClientForAccount(msauth.DefaultAccount, client)
}

// SetMetrics sets the metrics recorder used by instrumented tool handlers
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil if instrumentation is not configured
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by instrumented tool handlers
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// AuditLogger returns the audit logger, or nil if audit logging is not configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

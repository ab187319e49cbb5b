package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpapi "github.com/daykeephq/daykeep/internal/auth/http"
	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/internal/auth/store/drivers/sqlite"
	"github.com/daykeephq/daykeep/pkg/jwtx"
)

// captureSender collects reset codes instead of sending mail.
type captureSender struct {
	mu   sync.Mutex
	sent map[string]string // email -> latest code
}

func (c *captureSender) SendResetCode(_ context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent == nil {
		c.sent = map[string]string{}
	}
	c.sent[email] = code
	return nil
}

func (c *captureSender) codeFor(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[email]
}

// newTestServer stands up the full router over an in-memory store. Each
// call gets fresh rate limiters, so tests don't bleed into each other.
func newTestServer(t *testing.T, debugCodes bool) (*httptest.Server, *captureSender) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.EnsureSchema(context.Background()))

	tokens := &jwtx.Issuer{
		Secret: []byte("test-secret-test-secret-test-secret!"),
		Issuer: "daykeep-test",
		TTL:    time.Hour,
	}
	sender := &captureSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(tokens, "test", st, logger)
	router.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	router.ResetService = &service.PasswordResetService{Store: st, Tokens: tokens, Sender: sender}
	router.DebugResetCodes = debugCodes
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, sender
}

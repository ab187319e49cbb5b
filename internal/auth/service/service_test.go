package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daykeephq/daykeep/internal/auth/mail"
	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/internal/auth/store"
	"github.com/daykeephq/daykeep/internal/auth/store/drivers/sqlite"
	"github.com/daykeephq/daykeep/pkg/jwtx"
)

// captureSender records every reset code handed to it instead of sending
// anything.
type captureSender struct {
	mu   sync.Mutex
	sent []sentCode
}

type sentCode struct {
	Email string
	Code  string
}

var _ mail.Sender = (*captureSender)(nil)

func (c *captureSender) SendResetCode(_ context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentCode{Email: email, Code: code})
	return nil
}

func (c *captureSender) last(t *testing.T) sentCode {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

type testEnv struct {
	Store  store.Store
	Auth   *service.AuthService
	Resets *service.PasswordResetService
	Sender *captureSender
	Tokens *jwtx.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.EnsureSchema(context.Background()))

	issuer := &jwtx.Issuer{
		Secret: []byte("test-secret-test-secret-test-secret!"),
		Issuer: "daykeep-test",
		TTL:    time.Hour,
	}
	sender := &captureSender{}

	return &testEnv{
		Store:  st,
		Auth:   &service.AuthService{Store: st, Tokens: issuer},
		Resets: &service.PasswordResetService{Store: st, Tokens: issuer, Sender: sender},
		Sender: sender,
		Tokens: issuer,
	}
}

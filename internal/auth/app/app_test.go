package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daykeephq/daykeep/internal/auth/store/drivers/sqlite"
)

func TestSQLiteDSNUsesPragmaParameters(t *testing.T) {
	dsn := sqliteDSN("auth.db")

	require.Equal(t, "file:auth.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
	// The bare mattn-style keys are silently dropped by modernc.org/sqlite.
	require.NotContains(t, dsn, "_busy_timeout=")
	require.NotContains(t, dsn, "_journal_mode=")
}

func TestSQLiteDSNOpens(t *testing.T) {
	dsn := sqliteDSN(t.TempDir() + "/auth.db")

	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Ping(context.Background()))
}

package bootstrap

import (
	"context"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/database"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) Getenv {
	return func(key string) string { return m[key] }
}

var allParts = map[string]string{
	"host":     "db",
	"port":     "5432",
	"dbname":   "shopping",
	"username": "app",
	"password": "secret",
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestResolveConnectionString_PartsWin(t *testing.T) {
	env := map[string]string{"DATABASE_CONNECTION_STRING": "postgres://composite"}
	for k, v := range allParts {
		env[k] = v
	}
	dir := writeConfig(t, "connection_strings:\n  default: postgres://static\n")

	dsn, source, err := ResolveConnectionString(DefaultResolvers(envMap(env), dir))
	require.NoError(t, err)
	assert.Equal(t, "environment parts", source)
	assert.Equal(t, "host=db port=5432 dbname=shopping user=app password=secret sslmode=disable", dsn)
}

func TestResolveConnectionString_SSLModeOverride(t *testing.T) {
	env := map[string]string{"DB_SSLMODE": "require"}
	for k, v := range allParts {
		env[k] = v
	}

	dsn, _, err := ResolveConnectionString(DefaultResolvers(envMap(env), t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, dsn, "sslmode=require")
}

func TestResolveConnectionString_QuotesPassword(t *testing.T) {
	env := map[string]string{}
	for k, v := range allParts {
		env[k] = v
	}
	env["password"] = `it's a secret`

	dsn, _, err := ResolveConnectionString(DefaultResolvers(envMap(env), t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, dsn, `password='it\'s a secret'`)
}

func TestResolveConnectionString_FourPartsFallThrough(t *testing.T) {
	for missing := range allParts {
		t.Run(missing, func(t *testing.T) {
			env := map[string]string{"DATABASE_CONNECTION_STRING": "postgres://composite"}
			for k, v := range allParts {
				if k != missing {
					env[k] = v
				}
			}

			dsn, source, err := ResolveConnectionString(DefaultResolvers(envMap(env), t.TempDir()))
			require.NoError(t, err)
			assert.Equal(t, "DATABASE_CONNECTION_STRING", source)
			assert.Equal(t, "postgres://composite", dsn)
		})
	}
}

func TestResolveConnectionString_StaticConfig(t *testing.T) {
	dir := writeConfig(t, "connection_strings:\n  default: sqlite://shopping.db\n")

	dsn, source, err := ResolveConnectionString(DefaultResolvers(envMap(nil), dir))
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", source)
	assert.Equal(t, "sqlite://shopping.db", dsn)
}

func TestResolveConnectionString_NothingConfigured(t *testing.T) {
	// missing config.yaml is not an error on its own
	_, _, err := ResolveConnectionString(DefaultResolvers(envMap(nil), t.TempDir()))
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestResolveConnectionString_BrokenConfigFile(t *testing.T) {
	dir := writeConfig(t, "connection_strings: [unterminated\n")

	_, source, err := ResolveConnectionString(DefaultResolvers(envMap(nil), dir))
	require.Error(t, err)
	assert.Equal(t, "config.yaml", source)
	assert.NotErrorIs(t, err, domain.ErrNotConfigured)
}

// fakeTimer fires immediately and records every delay it was asked to wait.
type fakeTimer struct {
	delays []time.Duration
	c      chan time.Time
}

func (f *fakeTimer) Start(d time.Duration) {
	f.delays = append(f.delays, d)
	f.c = make(chan time.Time, 1)
	f.c <- time.Now()
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time {
	return f.c
}

func TestRetryPolicy_SucceedsBeforeLimit(t *testing.T) {
	timer := &fakeTimer{}
	policy := RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay, Timer: timer}

	calls := 0
	err := policy.Do(context.Background(), hclog.NewNullLogger(), "test", func(context.Context) error {
		calls++
		if calls < DefaultAttempts {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, DefaultAttempts, calls)
	assert.Len(t, timer.delays, DefaultAttempts-1)
	for _, d := range timer.delays {
		assert.Equal(t, 5*time.Second, d)
	}
}

func TestRetryPolicy_FatalAfterLimit(t *testing.T) {
	timer := &fakeTimer{}
	policy := RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay, Timer: timer}

	last := errors.New("still refused")
	calls := 0
	err := policy.Do(context.Background(), hclog.NewNullLogger(), "test", func(context.Context) error {
		calls++
		return last
	})

	var retryErr *RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, DefaultAttempts, retryErr.Attempts)
	assert.ErrorIs(t, err, last)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
	assert.Equal(t, DefaultAttempts, calls)
	assert.Len(t, timer.delays, DefaultAttempts-1)
}

func TestRetryPolicy_CancelledWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{Attempts: 3, Delay: time.Hour}
	calls := 0
	err := policy.Do(ctx, hclog.NewNullLogger(), "test", func(context.Context) error {
		calls++
		return errors.New("refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRun_MigratesSQLite(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "shopping.db")
	cfg := Config{
		Resolvers: DefaultResolvers(envMap(map[string]string{"DATABASE_CONNECTION_STRING": dsn}), t.TempDir()),
		Retry:     RetryPolicy{Attempts: 1, Timer: &fakeTimer{}},
	}

	store, err := Run(context.Background(), cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.DB.Close() })

	assert.Equal(t, database.SQLite, store.Dialect)
	assert.Equal(t, "DATABASE_CONNECTION_STRING", store.Source)

	var count int
	require.NoError(t, store.DB.QueryRow(`SELECT COUNT(*) FROM shopping_list_items`).Scan(&count))
	assert.Zero(t, count)
}

func TestRun_NotConfiguredSkipsRetry(t *testing.T) {
	timer := &fakeTimer{}
	cfg := Config{
		Resolvers: DefaultResolvers(envMap(nil), t.TempDir()),
		Retry:     RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay, Timer: timer},
	}

	_, err := Run(context.Background(), cfg, hclog.NewNullLogger())
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.Empty(t, timer.delays)
}

func TestRun_UnreachableDatabaseIsFatal(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "missing", "dir", "shopping.db")
	timer := &fakeTimer{}
	cfg := Config{
		Resolvers: DefaultResolvers(envMap(map[string]string{"DATABASE_CONNECTION_STRING": dsn}), t.TempDir()),
		Retry:     RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay, Timer: timer},
	}

	_, err := Run(context.Background(), cfg, hclog.NewNullLogger())
	var retryErr *RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, DefaultAttempts, retryErr.Attempts)
	assert.Len(t, timer.delays, DefaultAttempts-1)
}

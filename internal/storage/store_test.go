package storage

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"budgetbuddy/internal/log"
)

// StoreTestSuite runs the same contract checks against every Store.
type StoreTestSuite struct {
	suite.Suite
	open  func(t *testing.T) Store
	store Store
}

func (s *StoreTestSuite) SetupTest() {
	s.store = s.open(s.T())
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) TestMissingKey() {
	v, ok, err := s.store.Get(context.Background(), "nope")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
	assert.Nil(s.T(), v)
}

func (s *StoreTestSuite) TestSetThenGet() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Set(ctx, "a@x.com_expenses", []byte(`[{"id":"1"}]`)))

	v, ok, err := s.store.Get(ctx, "a@x.com_expenses")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), `[{"id":"1"}]`, string(v))
}

func (s *StoreTestSuite) TestOverwrite() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Set(ctx, "users", []byte("one")))
	require.NoError(s.T(), s.store.Set(ctx, "users", []byte("two")))

	v, ok, err := s.store.Get(ctx, "users")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), "two", string(v))
}

func (s *StoreTestSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Set(ctx, "a@x.com_income", []byte("a")))
	require.NoError(s.T(), s.store.Set(ctx, "b@x.com_income", []byte("b")))

	v, _, err := s.store.Get(ctx, "a@x.com_income")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "a", string(v))
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(*testing.T) Store { return NewMemoryStore() }})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(t *testing.T) Store {
		st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"), nil)
		require.NoError(t, err)
		return st
	}})
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	in := []byte("abc")
	require.NoError(t, st.Set(ctx, "k", in))
	in[0] = 'z'

	out, _, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[1] = 'z'
	again, _, _ := st.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
	assert.ElementsMatch(t, []string{"k"}, st.Keys())
}

func TestMemoryStoreClosed(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.Close())
	assert.ErrorIs(t, st.Set(context.Background(), "k", nil), ErrClosed)
	_, _, err := st.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	st, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "a@x.com_currency", []byte(`"EUR"`)))
	require.NoError(t, st.Close())

	// Migrations are idempotent on an existing file.
	st, err = NewSQLiteStore(path, nil)
	require.NoError(t, err)
	defer st.Close()

	v, ok, err := st.Get(ctx, "a@x.com_currency")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"EUR"`, string(v))
}

func TestSQLiteStoreLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: &buf})
	path := filepath.Join(t.TempDir(), "ledger.db")

	st, err := NewSQLiteStore(path, logger)
	require.NoError(t, err)
	defer st.Close()

	out := buf.String()
	assert.Contains(t, out, "SQLite store ready")
	assert.Contains(t, out, "component=storage")
	assert.Contains(t, out, "path="+path)
}

package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"budgetbuddy/internal/events"
	"budgetbuddy/internal/persist"
	"budgetbuddy/internal/storage"
)

type AccountTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *storage.MemoryStore
	adapter *persist.Adapter
	bus     *events.Bus
	seen    []events.Event
	accts   *Store
}

func (s *AccountTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storage.NewMemoryStore()
	s.adapter = persist.NewAdapter(s.store, nil)
	s.bus = events.NewBus(nil)
	s.seen = nil
	s.bus.Subscribe(func(e events.Event) { s.seen = append(s.seen, e) })
	s.accts = s.open()
}

func (s *AccountTestSuite) open() *Store {
	return New(s.ctx, s.adapter, WithHashCost(bcrypt.MinCost), WithPublisher(s.bus))
}

func (s *AccountTestSuite) TestSignupThenLoginIsCaseInsensitive() {
	created, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "pw1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "a@x.com", created.Email)
	assert.Equal(s.T(), "Ann", created.Name)

	s.accts.Logout(s.ctx)
	got, err := s.accts.Login(s.ctx, "A@X.com", "pw1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created, got)

	current, ok := s.accts.Current()
	assert.True(s.T(), ok)
	assert.Equal(s.T(), created.ID, current.ID)
}

func (s *AccountTestSuite) TestSignupSignsIn() {
	u, err := s.accts.Signup(s.ctx, "b@x.com", "Bob", "secret")
	require.NoError(s.T(), err)

	current, ok := s.accts.Current()
	assert.True(s.T(), ok)
	assert.Equal(s.T(), u, current)
}

func (s *AccountTestSuite) TestDuplicateEmailDiffersOnlyInCase() {
	_, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "pw1")
	require.NoError(s.T(), err)

	_, err = s.accts.Signup(s.ctx, "A@X.COM", "Other Ann", "pw2")
	assert.ErrorIs(s.T(), err, ErrDuplicateEmail)
	assert.Equal(s.T(), 1, s.accts.Count())
}

func (s *AccountTestSuite) TestLoginFailuresLookTheSame() {
	_, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "pw1")
	require.NoError(s.T(), err)
	s.accts.Logout(s.ctx)

	_, unknown := s.accts.Login(s.ctx, "nobody@x.com", "pw1")
	_, wrong := s.accts.Login(s.ctx, "a@x.com", "PW1")

	assert.ErrorIs(s.T(), unknown, ErrInvalidCredentials)
	assert.ErrorIs(s.T(), wrong, ErrInvalidCredentials)
	assert.Equal(s.T(), UserMessage(unknown), UserMessage(wrong))

	_, ok := s.accts.Current()
	assert.False(s.T(), ok)
}

func (s *AccountTestSuite) TestLogoutIsIdempotent() {
	_, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "pw1")
	require.NoError(s.T(), err)

	s.accts.Logout(s.ctx)
	_, once := s.accts.Current()
	s.accts.Logout(s.ctx)
	_, twice := s.accts.Current()

	assert.False(s.T(), once)
	assert.Equal(s.T(), once, twice)

	logouts := 0
	for _, e := range s.seen {
		if e.Type == events.UserLoggedOut {
			logouts++
		}
	}
	assert.Equal(s.T(), 1, logouts)
}

func (s *AccountTestSuite) TestSignupPersistsRegistry() {
	_, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "pw1")
	require.NoError(s.T(), err)

	reopened := s.open()
	assert.Equal(s.T(), 1, reopened.Count())
	_, ok := reopened.Current()
	assert.False(s.T(), ok, "identity is not persisted")

	u, err := reopened.Login(s.ctx, "a@x.com", "pw1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Ann", u.Name)
}

func (s *AccountTestSuite) TestPasswordIsNotStoredInPlaintext() {
	_, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "correct-horse")
	require.NoError(s.T(), err)

	blob, ok, err := s.store.Get(s.ctx, persist.UsersKey)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.False(s.T(), strings.Contains(string(blob), "correct-horse"))
	assert.Contains(s.T(), string(blob), `"a@x.com"`)
}

func (s *AccountTestSuite) TestMissingFields() {
	for _, tc := range [][3]string{{"", "Ann", "pw"}, {"a@x.com", " ", "pw"}, {"a@x.com", "Ann", ""}} {
		_, err := s.accts.Signup(s.ctx, tc[0], tc[1], tc[2])
		assert.ErrorIs(s.T(), err, ErrMissingFields)
	}
	assert.Equal(s.T(), 0, s.accts.Count())
}

func (s *AccountTestSuite) TestEventsPublished() {
	_, err := s.accts.Signup(s.ctx, "a@x.com", "Ann", "pw1")
	require.NoError(s.T(), err)
	_, err = s.accts.Login(s.ctx, "a@x.com", "pw1")
	require.NoError(s.T(), err)
	s.accts.Logout(s.ctx)

	var types []events.Type
	for _, e := range s.seen {
		types = append(types, e.Type)
	}
	assert.Equal(s.T(), []events.Type{events.UserSignedUp, events.UserLoggedIn, events.UserLoggedOut}, types)
}

func (s *AccountTestSuite) TestCorruptRegistryStartsEmpty() {
	require.NoError(s.T(), s.store.Set(s.ctx, persist.UsersKey, []byte("[oops")))
	assert.Equal(s.T(), 0, s.open().Count())
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.NotEmpty(t, UserMessage(ErrDuplicateEmail))
	assert.NotEmpty(t, UserMessage(errors.New("other")))
	assert.NotEqual(t, UserMessage(ErrDuplicateEmail), UserMessage(ErrInvalidCredentials))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/mock"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type authFixture struct {
	svc         *authService
	db          *memDB
	mailer      *recordingSender
	credentials *credentialService
	now         time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		db:     newMemDB(),
		mailer: &recordingSender{},
		now:    time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}
	f.credentials = newTestCredentials(f.now)
	f.credentials.tokens = utils.NewUUIDGenerator()

	audit := NewAuditService(f.db.storages().WeblogRepository, logger.Nop())
	f.svc = NewAuthService(f.db.storages(), f.credentials, f.mailer, audit, testConfig(), logger.Nop()).(*authService)
	return f
}

func aliceRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "Abc123!",
		ConfirmPassword: "Abc123!",
	}
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestRegister_CreatesPendingUserAndSendsLink(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.svc.Register(context.Background(), aliceRegistration())
	require.NoError(t, err)

	assert.NotZero(t, user.UserID)
	assert.False(t, user.Active)
	assert.Equal(t, models.AccountTypeUser, user.AccountType)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.PasswordSalt)
	assert.True(t, f.credentials.VerifyPassword("Abc123!", user.PasswordHash, user.PasswordSalt))
	assert.Equal(t, f.now, user.RegisteredAt)

	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.last()
	assert.Equal(t, user.ConfirmationToken, sent.token)

	link, err := url.Parse(sent.link)
	require.NoError(t, err)
	assert.Equal(t, "api.example.com", link.Host)
	assert.Equal(t, "/api/v1/auth/confirm-email", link.Path)
	assert.Equal(t, sent.token, link.Query().Get("token"))

	require.Len(t, f.db.weblog, 1)
	assert.Equal(t, "user registered", f.db.weblog[0].Message)
}

func TestRegister_TrimsInput(t *testing.T) {
	f := newAuthFixture(t)

	req := aliceRegistration()
	req.Username = "  alice "
	req.Email = " alice@x.com\t"

	user, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	second := aliceRegistration()
	second.Username = "alice2"
	_, err = f.svc.Register(ctx, second)
	require.ErrorIs(t, err, ErrEmailAlreadyExists)

	assert.Len(t, f.db.users, 1)
	assert.Len(t, f.mailer.sent, 1)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	second := aliceRegistration()
	second.Email = "other@x.com"
	_, err = f.svc.Register(ctx, second)
	require.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestRegister_RuleOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		wantErr error
	}{
		{
			name: "email is checked before the policy",
			mutate: func(r *models.RegisterRequest) {
				r.Email = "broken"
				r.Password, r.ConfirmPassword = "abcdef", "abcdeg"
			},
			wantErr: ErrInvalidEmail,
		},
		{
			name: "policy is checked before the confirmation",
			mutate: func(r *models.RegisterRequest) {
				r.Password, r.ConfirmPassword = "abcdef", "abcdeg"
			},
			wantErr: ErrWeakPassword,
		},
		{
			name:    "confirmation",
			mutate:  func(r *models.RegisterRequest) { r.ConfirmPassword = "Abc123?" },
			wantErr: ErrPasswordsDoNotMatch,
		},
		{
			name:    "request shape",
			mutate:  func(r *models.RegisterRequest) { r.Username = "a" },
			wantErr: ErrInvalidDataProvided,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			req := aliceRegistration()
			tt.mutate(&req)

			_, err := f.svc.Register(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.db.users)
		})
	}
}

func TestRegister_MailFailureRollsBack(t *testing.T) {
	f := newAuthFixture(t)

	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)
	sender.EXPECT().
		SendConfirmationEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("smtp: connection refused"))
	f.svc.mailer = sender

	_, err := f.svc.Register(context.Background(), aliceRegistration())
	require.ErrorIs(t, err, ErrConfirmationLinkFailed)

	assert.Empty(t, f.db.users, "user row must be rolled back")
	assert.Empty(t, f.db.weblog)
}

func TestRegister_BrokenPublicURLRollsBack(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.publicURL = "not a url"

	_, err := f.svc.Register(context.Background(), aliceRegistration())
	require.ErrorIs(t, err, ErrConfirmationLinkFailed)

	assert.Empty(t, f.db.users)
	assert.Empty(t, f.mailer.sent)
}

func TestRegister_UniqueIndexRaceIsReported(t *testing.T) {
	f := newAuthFixture(t)
	f.db.createUserErr = fmt.Errorf("%w: duplicate key value violates unique constraint", store.ErrEmailAlreadyExists)

	_, err := f.svc.Register(context.Background(), aliceRegistration())
	require.ErrorIs(t, err, ErrEmailAlreadyExists)
}

// ─────────────────────────────────────────────
// ConfirmEmail and Login
// ─────────────────────────────────────────────

func TestConfirmEmail_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	id := strconv.FormatInt(user.UserID, 10)

	fail := testConfig().EmailConfirmation.FailURL

	assert.Equal(t, fail, f.svc.ConfirmEmail(ctx, "", user.ConfirmationToken))
	assert.Equal(t, fail, f.svc.ConfirmEmail(ctx, id, ""))
	assert.Equal(t, fail, f.svc.ConfirmEmail(ctx, "abc", user.ConfirmationToken))
	assert.Equal(t, fail, f.svc.ConfirmEmail(ctx, "999999", user.ConfirmationToken))
	assert.Equal(t, fail, f.svc.ConfirmEmail(ctx, id, "wrong"))

	f.credentials.now = func() time.Time { return f.now.Add(24 * time.Hour) }
	assert.Equal(t, fail, f.svc.ConfirmEmail(ctx, id, user.ConfirmationToken))

	assert.False(t, f.db.users[user.UserID].Active)
}

func TestConfirmEmail_IsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	id := strconv.FormatInt(user.UserID, 10)

	assert.Equal(t, testConfig().EmailConfirmation.SuccessURL, f.svc.ConfirmEmail(ctx, id, user.ConfirmationToken))

	stored := f.db.users[user.UserID]
	assert.True(t, stored.Active)
	assert.Empty(t, stored.ConfirmationToken)
	assert.Nil(t, stored.ConfirmationTokenIssuedAt)

	assert.Equal(t, testConfig().EmailConfirmation.FailURL, f.svc.ConfirmEmail(ctx, id, user.ConfirmationToken))
}

// Registration, login before confirmation, confirmation, login after.
func TestAccountLifecycle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "Abc123!"})
	require.ErrorIs(t, err, ErrAccountNotActive)

	redirect := f.svc.ConfirmEmail(ctx, strconv.FormatInt(user.UserID, 10), f.mailer.last().token)
	require.Equal(t, testConfig().EmailConfirmation.SuccessURL, redirect)

	resp, err := f.svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "Abc123!"})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, resp.UserID)
	require.NotEmpty(t, resp.Token)

	token, err := f.svc.ParseToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, token.Identity.UserID)
	assert.False(t, token.Identity.IsAdmin())
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	require.Equal(t, testConfig().EmailConfirmation.SuccessURL, f.svc.ConfirmEmail(ctx, strconv.FormatInt(user.UserID, 10), user.ConfirmationToken))

	t.Run("by e-mail", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, models.LoginRequest{Login: " alice@x.com ", Password: "Abc123!"})
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.Login(ctx, models.LoginRequest{Login: "nobody", Password: "Abc123!"})
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "Abc123?"})
		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("empty request", func(t *testing.T) {
		_, err := f.svc.Login(ctx, models.LoginRequest{})
		require.ErrorIs(t, err, ErrInvalidDataProvided)
	})

	t.Run("deactivated account", func(t *testing.T) {
		u := f.db.users[user.UserID]
		u.Active = false
		f.db.users[user.UserID] = u

		_, err := f.svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "Abc123!"})
		require.ErrorIs(t, err, ErrAccountNotActive)
	})
}

// Tokens carry a snapshot of the role; the stored account decides.
func TestParseToken_FollowsStoredAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	require.Equal(t, testConfig().EmailConfirmation.SuccessURL, f.svc.ConfirmEmail(ctx, strconv.FormatInt(user.UserID, 10), user.ConfirmationToken))

	stored := f.db.users[user.UserID]
	stored.AccountType = models.AccountTypeAdministrator
	f.db.users[user.UserID] = stored

	resp, err := f.svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "Abc123!"})
	require.NoError(t, err)

	token, err := f.svc.ParseToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, token.Identity.IsAdmin())

	t.Run("demoted", func(t *testing.T) {
		demoted := f.db.users[user.UserID]
		demoted.AccountType = models.AccountTypeUser
		f.db.users[user.UserID] = demoted

		token, err := f.svc.ParseToken(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.UserID, token.Identity.UserID)
		assert.False(t, token.Identity.IsAdmin())
	})

	t.Run("deactivated", func(t *testing.T) {
		deactivated := f.db.users[user.UserID]
		deactivated.Active = false
		f.db.users[user.UserID] = deactivated

		_, err := f.svc.ParseToken(ctx, resp.Token)
		require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	})

	t.Run("removed", func(t *testing.T) {
		delete(f.db.users, user.UserID)

		_, err := f.svc.ParseToken(ctx, resp.Token)
		require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	})

	t.Run("store unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockUserRepository(ctrl)
		users.EXPECT().FindByID(gomock.Any(), user.UserID).Return(models.User{}, store.ErrTemporarilyUnavailable)

		svc := *f.svc
		svc.userRepository = users

		_, err := svc.ParseToken(ctx, resp.Token)
		require.ErrorIs(t, err, store.ErrTemporarilyUnavailable)
		assert.NotErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	})
}

func TestBuildConfirmationLink(t *testing.T) {
	link, err := buildConfirmationLink("https://api.example.com/base/", 7, "a b")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/base/api/v1/auth/confirm-email?id=7&token=a+b", link)

	for _, base := range []string{"", "/relative", "::"} {
		_, err = buildConfirmationLink(base, 7, "t")
		assert.Error(t, err, base)
	}

	_, err = buildConfirmationLink("https://api.example.com", 0, "t")
	assert.Error(t, err)
}

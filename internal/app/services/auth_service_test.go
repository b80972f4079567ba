package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/ratelimit"
)

var errOTPNotFound = apperrors.ErrOTPNotFound

const testEmail = "john.doe2022@vitstudent.ac.in"

type authFixture struct {
	svc    *authServiceImpl
	otps   *memOTPStore
	sender *recordingSender
	users  map[string]*models.User
	clock  time.Time
}

func newAuthFixture(t *testing.T, limiter ratelimit.Limiter) *authFixture {
	t.Helper()
	f := &authFixture{
		otps:   newMemOTPStore(),
		sender: &recordingSender{},
		users:  map[string]*models.User{},
		clock:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	users := &fakeUserStore{getOrCreate: func(_ context.Context, email, name string) (*models.User, error) {
		if u, ok := f.users[email]; ok {
			return u, nil
		}
		u := &models.User{ID: int64(len(f.users) + 1), Email: email, Name: name}
		f.users[email] = u
		return u, nil
	}}
	svc := NewAuthService(users, f.otps, fakeTokenIssuer{}, f.sender, limiter,
		AuthConfig{AllowedEmailSuffix: "@vitstudent.ac.in", OTPTTL: 10 * time.Minute}, zerolog.Nop())
	f.svc = svc.(*authServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func TestGenerateOTPRejectsForeignDomain(t *testing.T) {
	f := newAuthFixture(t, nil)

	err := f.svc.GenerateOTP(context.Background(), "someone@gmail.com")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	msg, ok := apperrors.MessageOf(err)
	require.True(t, ok)
	assert.Equal(t, "Please provide a valid @vitstudent.ac.in email.", msg)
	assert.Empty(t, f.otps.challenges)
	assert.Empty(t, f.sender.code)
}

func TestGenerateOTPStoresHashAndSendsCode(t *testing.T) {
	f := newAuthFixture(t, nil)

	require.NoError(t, f.svc.GenerateOTP(context.Background(), "  John.Doe2022@VITSTUDENT.ac.in "))

	assert.Equal(t, testEmail, f.sender.to)
	assert.Len(t, f.sender.code, 6)

	c, ok := f.otps.challenges[testEmail]
	require.True(t, ok)
	assert.NotEqual(t, f.sender.code, c.OTPHash)
	assert.Equal(t, f.clock.Add(10*time.Minute), c.ExpiresAt)
}

func TestGenerateOTPThrottled(t *testing.T) {
	f := newAuthFixture(t, fakeLimiter{decision: ratelimit.Decision{Allowed: false, RetryAfter: time.Minute}})

	err := f.svc.GenerateOTP(context.Background(), testEmail)
	assert.ErrorIs(t, err, apperrors.ErrTooManyRequests)
	assert.Empty(t, f.otps.challenges)
}

func TestGenerateOTPLimiterOutageFailsOpen(t *testing.T) {
	f := newAuthFixture(t, fakeLimiter{err: errors.New("redis down")})

	require.NoError(t, f.svc.GenerateOTP(context.Background(), testEmail))
	assert.Contains(t, f.otps.challenges, testEmail)
}

func TestGenerateOTPSendFailure(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.sender.err = errors.New("smtp unavailable")

	err := f.svc.GenerateOTP(context.Background(), testEmail)
	assert.Error(t, err)
}

func TestVerifyOTPSuccess(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))

	resp, err := f.svc.VerifyOTP(ctx, testEmail, f.sender.code)
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+testEmail, resp.Token)
	assert.Equal(t, "John Doe", resp.User.Name)
	assert.Equal(t, testEmail, resp.User.Email)

	// consumed
	_, err = f.svc.VerifyOTP(ctx, testEmail, f.sender.code)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyOTPKeepsExistingName(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	f.users[testEmail] = &models.User{ID: 42, Email: testEmail, Name: "Johnny"}

	require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
	resp, err := f.svc.VerifyOTP(ctx, testEmail, f.sender.code)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.User.ID)
	assert.Equal(t, "Johnny", resp.User.Name)
}

func TestVerifyOTPFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		_, err := f.svc.VerifyOTP(ctx, testEmail, " ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("no challenge", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		_, err := f.svc.VerifyOTP(ctx, testEmail, "123456")
		assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
		wrong := "000000"
		if f.sender.code == wrong {
			wrong = "111111"
		}
		_, err := f.svc.VerifyOTP(ctx, testEmail, wrong)
		assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)
		assert.Contains(t, f.otps.challenges, testEmail)
	})

	t.Run("expired", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
		f.clock = f.clock.Add(10*time.Minute + time.Second)
		_, err := f.svc.VerifyOTP(ctx, testEmail, f.sender.code)
		assert.ErrorIs(t, err, apperrors.ErrOTPExpired)
	})

	t.Run("reissue invalidates previous code", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
		first := f.sender.code
		for i := 0; i < 5 && f.sender.code == first; i++ {
			require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
		}
		require.NotEqual(t, first, f.sender.code)
		_, err := f.svc.VerifyOTP(ctx, testEmail, first)
		assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)
		assert.Len(t, f.otps.challenges, 1)
	})
}

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"john.doe2022@vitstudent.ac.in", "John Doe"},
		{"alice@vitstudent.ac.in", "Alice"},
		{"mary.ann.smith@vitstudent.ac.in", "Mary Ann Smith"},
		{"bob..lee21@vitstudent.ac.in", "Bob Lee"},
		{"2022@vitstudent.ac.in", "2022"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveNameFromEmail(tt.email))
		})
	}
}

func TestVerifyOTPWrongGuessesAreCapped(t *testing.T) {
	ctx := context.Background()
	limiter := &countingLimiter{limit: 3}
	f := newAuthFixture(t, limiter)
	require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
	code := f.sender.code

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < 3; i++ {
		_, err := f.svc.VerifyOTP(ctx, testEmail, wrong)
		require.ErrorIs(t, err, apperrors.ErrOTPInvalid)
	}

	_, err := f.svc.VerifyOTP(ctx, testEmail, wrong)
	assert.ErrorIs(t, err, apperrors.ErrTooManyRequests)
	assert.NotContains(t, f.otps.challenges, testEmail)

	// the burned code no longer works even when correct
	_, err = f.svc.VerifyOTP(ctx, testEmail, code)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)

	// issuance has its own counter
	assert.Equal(t, 1, limiter.hits[testEmail])
	require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
	resp, err := f.svc.VerifyOTP(ctx, testEmail, f.sender.code)
	require.NoError(t, err)
	assert.Equal(t, testEmail, resp.User.Email)
}

func TestVerifyOTPLimiterOutageStillRejectsWrongCode(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	require.NoError(t, f.svc.GenerateOTP(ctx, testEmail))
	f.svc.limiter = fakeLimiter{err: errors.New("redis down")}

	wrong := "000000"
	if f.sender.code == wrong {
		wrong = "111111"
	}
	_, err := f.svc.VerifyOTP(ctx, testEmail, wrong)
	assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)
	assert.Contains(t, f.otps.challenges, testEmail)
}

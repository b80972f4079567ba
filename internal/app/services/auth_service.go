package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/auth"
	"github.com/vitbooks/exchange/internal/pkg/email"
	"github.com/vitbooks/exchange/internal/pkg/ratelimit"
	"github.com/vitbooks/exchange/internal/pkg/validation"
)

// verifyLimitKeyPrefix separates wrong-code counters from issuance counters
const verifyLimitKeyPrefix = "verify:"

// DefaultOTPTTL is how long an emailed code stays valid
const DefaultOTPTTL = 10 * time.Minute

// AuthService defines the interface for OTP login
type AuthService interface {
	GenerateOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*dto.AuthResponse, error)
}

// AuthConfig holds the login policy
type AuthConfig struct {
	// AllowedEmailSuffix is the required address ending, including the '@'
	AllowedEmailSuffix string
	OTPTTL             time.Duration
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users   UserStore
	otps    OTPStore
	tokens  TokenIssuer
	sender  email.Sender
	limiter ratelimit.Limiter
	config  AuthConfig
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserStore,
	otps OTPStore,
	tokens TokenIssuer,
	sender email.Sender,
	limiter ratelimit.Limiter,
	config AuthConfig,
	logger zerolog.Logger,
) AuthService {
	if config.OTPTTL <= 0 {
		config.OTPTTL = DefaultOTPTTL
	}
	if limiter == nil {
		limiter = ratelimit.NoopLimiter{}
	}
	return &authServiceImpl{
		users:   users,
		otps:    otps,
		tokens:  tokens,
		sender:  sender,
		limiter: limiter,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// GenerateOTP emails a fresh code to an institutional address, replacing any earlier one
func (s *authServiceImpl) GenerateOTP(ctx context.Context, rawEmail string) error {
	addr := validation.NormalizeEmail(rawEmail)
	if addr == "" {
		return apperrors.NewValidationError(msgRequiredFields)
	}
	if !validation.IsInstitutionalEmail(addr, s.config.AllowedEmailSuffix) {
		return apperrors.NewCustomError(apperrors.ErrInvalidEmail,
			fmt.Sprintf("Please provide a valid %s email.", s.config.AllowedEmailSuffix))
	}

	decision, err := s.limiter.Allow(ctx, addr)
	if err != nil {
		// Throttling is best-effort, a limiter outage must not block logins
		s.logger.Warn().Err(err).Str("email", addr).Msg("OTP rate limiter unavailable")
	} else if !decision.Allowed {
		return apperrors.NewCustomError(apperrors.ErrTooManyRequests,
			"Too many OTP requests. Please try again later.").
			WithDetails(map[string]interface{}{"retry_after_seconds": int(decision.RetryAfter.Seconds())})
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	hash, err := auth.HashOTP(code)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	challenge := &models.OTPChallenge{
		Email:     addr,
		OTPHash:   hash,
		ExpiresAt: s.now().Add(s.config.OTPTTL),
	}
	if err := s.otps.Replace(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.sender.SendOTPEmail(ctx, addr, code, s.config.OTPTTL); err != nil {
		s.logger.Error().Err(err).Str("email", addr).Msg("Failed to send OTP email")
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	s.logger.Info().Str("email", addr).Time("expiresAt", challenge.ExpiresAt).Msg("OTP issued")
	return nil
}

// VerifyOTP consumes a valid code and returns a token for the (possibly new) user
func (s *authServiceImpl) VerifyOTP(ctx context.Context, rawEmail, code string) (*dto.AuthResponse, error) {
	addr := validation.NormalizeEmail(rawEmail)
	code = strings.TrimSpace(code)
	if addr == "" || code == "" {
		return nil, apperrors.NewValidationError(msgRequiredFields)
	}

	challenge, err := s.otps.GetByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, apperrors.ErrOTPNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrOTPNotFound, "Invalid OTP or email.")
		}
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}

	if challenge.IsExpired(s.now()) {
		return nil, apperrors.NewCustomError(apperrors.ErrOTPExpired, "OTP has expired.")
	}

	if !auth.CheckOTP(challenge.OTPHash, code) {
		return nil, s.recordFailedVerification(ctx, addr)
	}

	user, err := s.users.GetOrCreate(ctx, addr, DeriveNameFromEmail(addr))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	if err := s.otps.DeleteByEmail(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to consume otp: %w", err)
	}

	token, _, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// recordFailedVerification counts a wrong code against the email. Once the
// limit is reached the pending challenge is burned so guessing has to restart
// with a new (itself throttled) code.
func (s *authServiceImpl) recordFailedVerification(ctx context.Context, addr string) error {
	invalid := apperrors.NewCustomError(apperrors.ErrOTPInvalid, "Invalid OTP.")

	decision, err := s.limiter.Allow(ctx, verifyLimitKeyPrefix+addr)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", addr).Msg("OTP rate limiter unavailable")
		return invalid
	}
	if decision.Allowed {
		return invalid
	}

	if err := s.otps.DeleteByEmail(ctx, addr); err != nil {
		s.logger.Error().Err(err).Str("email", addr).Msg("Failed to discard OTP after repeated failures")
	}
	s.logger.Warn().Str("email", addr).Msg("Too many wrong OTP attempts, challenge discarded")
	return apperrors.NewCustomError(apperrors.ErrTooManyRequests,
		"Too many wrong attempts. Please request a new OTP later.").
		WithDetails(map[string]interface{}{"retry_after_seconds": int(decision.RetryAfter.Seconds())})
}

// DeriveNameFromEmail builds a display name from the local part of an address:
// trailing digits are dropped and each dot-separated segment is capitalized,
// so "john.doe2022@vitstudent.ac.in" becomes "John Doe".
func DeriveNameFromEmail(addr string) string {
	local := addr
	if at := strings.IndexByte(addr, '@'); at >= 0 {
		local = addr[:at]
	}

	trimmed := strings.TrimRightFunc(local, unicode.IsDigit)

	var parts []string
	for _, segment := range strings.Split(trimmed, ".") {
		if segment == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(segment)
		parts = append(parts, string(unicode.ToUpper(first))+segment[size:])
	}

	if len(parts) == 0 {
		return local
	}
	return strings.Join(parts, " ")
}

package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/repositories"
	"github.com/vitbooks/exchange/internal/pkg/email"
	"github.com/vitbooks/exchange/internal/pkg/filestorage"
	"github.com/vitbooks/exchange/internal/pkg/ratelimit"
)

type fakeUserStore struct {
	getOrCreate func(ctx context.Context, email, name string) (*models.User, error)
}

func (f *fakeUserStore) GetOrCreate(ctx context.Context, email, name string) (*models.User, error) {
	return f.getOrCreate(ctx, email, name)
}

// memOTPStore keeps challenges in memory, keyed by email
type memOTPStore struct {
	challenges map[string]*models.OTPChallenge
	replaceErr error
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{challenges: map[string]*models.OTPChallenge{}}
}

func (m *memOTPStore) Replace(_ context.Context, c *models.OTPChallenge) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	stored := *c
	m.challenges[c.Email] = &stored
	return nil
}

func (m *memOTPStore) GetByEmail(_ context.Context, email string) (*models.OTPChallenge, error) {
	c, ok := m.challenges[email]
	if !ok {
		return nil, errOTPNotFound
	}
	return c, nil
}

func (m *memOTPStore) DeleteByEmail(_ context.Context, email string) error {
	delete(m.challenges, email)
	return nil
}

type fakeListingStore struct {
	list         func(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	listByLender func(ctx context.Context, lenderID int64) ([]*models.Listing, error)
	getByID      func(ctx context.Context, id int64) (*models.Listing, error)
	create       func(ctx context.Context, listing *models.Listing) error
	update       func(ctx context.Context, listing *models.Listing) error
	delete       func(ctx context.Context, id int64) error
}

func (f *fakeListingStore) List(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	return f.list(ctx, filter)
}

func (f *fakeListingStore) ListByLender(ctx context.Context, lenderID int64) ([]*models.Listing, error) {
	return f.listByLender(ctx, lenderID)
}

func (f *fakeListingStore) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	return f.getByID(ctx, id)
}

func (f *fakeListingStore) Create(ctx context.Context, listing *models.Listing) error {
	return f.create(ctx, listing)
}

func (f *fakeListingStore) Update(ctx context.Context, listing *models.Listing) error {
	return f.update(ctx, listing)
}

func (f *fakeListingStore) Delete(ctx context.Context, id int64) error {
	return f.delete(ctx, id)
}

type fakeRentalRequestStore struct {
	hasPending   func(ctx context.Context, listingID, borrowerID int64) (bool, error)
	create       func(ctx context.Context, req *models.RentalRequest) error
	listIncoming func(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error)
	listOutgoing func(ctx context.Context, borrowerID int64) ([]*models.OutgoingRequest, error)
	respond      func(ctx context.Context, requestID int64, decision models.RequestStatus, check repositories.OwnershipCheck) error
}

func (f *fakeRentalRequestStore) HasPending(ctx context.Context, listingID, borrowerID int64) (bool, error) {
	return f.hasPending(ctx, listingID, borrowerID)
}

func (f *fakeRentalRequestStore) Create(ctx context.Context, req *models.RentalRequest) error {
	return f.create(ctx, req)
}

func (f *fakeRentalRequestStore) ListIncoming(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error) {
	return f.listIncoming(ctx, lenderID)
}

func (f *fakeRentalRequestStore) ListOutgoing(ctx context.Context, borrowerID int64) ([]*models.OutgoingRequest, error) {
	return f.listOutgoing(ctx, borrowerID)
}

func (f *fakeRentalRequestStore) Respond(ctx context.Context, requestID int64, decision models.RequestStatus, check repositories.OwnershipCheck) error {
	return f.respond(ctx, requestID, decision, check)
}

type fakeBorrowRequestStore struct {
	listOpen func(ctx context.Context) ([]*models.BorrowRequest, error)
	create   func(ctx context.Context, br *models.BorrowRequest) error
}

func (f *fakeBorrowRequestStore) ListOpen(ctx context.Context) ([]*models.BorrowRequest, error) {
	return f.listOpen(ctx)
}

func (f *fakeBorrowRequestStore) Create(ctx context.Context, br *models.BorrowRequest) error {
	return f.create(ctx, br)
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) GenerateToken(user *models.User) (string, time.Time, error) {
	return "token-for-" + user.Email, time.Now().Add(time.Hour), nil
}

// recordingSender captures the last code it was asked to send
type recordingSender struct {
	to   string
	code string
	err  error
}

func (s *recordingSender) SendOTPEmail(_ context.Context, toEmail, code string, _ time.Duration) error {
	s.to, s.code = toEmail, code
	return s.err
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
}

func (f fakeLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return f.decision, f.err
}

// countingLimiter allows limit hits per key, then denies
type countingLimiter struct {
	limit int
	hits  map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	if l.hits == nil {
		l.hits = map[string]int{}
	}
	l.hits[key]++
	if l.hits[key] > l.limit {
		return ratelimit.Decision{Allowed: false, RetryAfter: time.Minute}, nil
	}
	return ratelimit.Decision{Allowed: true, Remaining: l.limit - l.hits[key]}, nil
}

type fakeImageStore struct {
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeImageStore) Save(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := "/uploads/" + folder + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

var (
	_ UserStore              = (*fakeUserStore)(nil)
	_ OTPStore               = (*memOTPStore)(nil)
	_ ListingStore           = (*fakeListingStore)(nil)
	_ RentalRequestStore     = (*fakeRentalRequestStore)(nil)
	_ BorrowRequestStore     = (*fakeBorrowRequestStore)(nil)
	_ TokenIssuer            = fakeTokenIssuer{}
	_ email.Sender           = (*recordingSender)(nil)
	_ ratelimit.Limiter      = fakeLimiter{}
	_ ratelimit.Limiter      = (*countingLimiter)(nil)
	_ filestorage.ImageStore = (*fakeImageStore)(nil)
)

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/middleware"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.UseJSONFieldNames()
}

type fakeAuthService struct {
	generateOTP func(ctx context.Context, email string) error
	verifyOTP   func(ctx context.Context, email, code string) (*dto.AuthResponse, error)
}

func (f *fakeAuthService) GenerateOTP(ctx context.Context, email string) error {
	return f.generateOTP(ctx, email)
}

func (f *fakeAuthService) VerifyOTP(ctx context.Context, email, code string) (*dto.AuthResponse, error) {
	return f.verifyOTP(ctx, email, code)
}

type fakeListingService struct {
	list    func(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	getByID func(ctx context.Context, id int64) (*models.Listing, error)
	create  func(ctx context.Context, lenderID int64, req *dto.CreateListingRequest, photo *multipart.FileHeader) (*models.Listing, error)
	update  func(ctx context.Context, id, callerID int64, req *dto.UpdateListingRequest) (*models.Listing, error)
	delete  func(ctx context.Context, id, callerID int64) error
}

func (f *fakeListingService) List(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	return f.list(ctx, filter)
}

func (f *fakeListingService) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	return f.getByID(ctx, id)
}

func (f *fakeListingService) Create(ctx context.Context, lenderID int64, req *dto.CreateListingRequest, photo *multipart.FileHeader) (*models.Listing, error) {
	return f.create(ctx, lenderID, req, photo)
}

func (f *fakeListingService) Update(ctx context.Context, id, callerID int64, req *dto.UpdateListingRequest) (*models.Listing, error) {
	return f.update(ctx, id, callerID, req)
}

func (f *fakeListingService) Delete(ctx context.Context, id, callerID int64) error {
	return f.delete(ctx, id, callerID)
}

type fakeRequestService struct {
	create       func(ctx context.Context, borrowerID, listingID int64) (*models.RentalRequest, error)
	listIncoming func(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error)
	respond      func(ctx context.Context, lenderID, requestID int64, decision models.RequestStatus) error
}

func (f *fakeRequestService) Create(ctx context.Context, borrowerID, listingID int64) (*models.RentalRequest, error) {
	return f.create(ctx, borrowerID, listingID)
}

func (f *fakeRequestService) ListIncoming(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error) {
	return f.listIncoming(ctx, lenderID)
}

func (f *fakeRequestService) Respond(ctx context.Context, lenderID, requestID int64, decision models.RequestStatus) error {
	return f.respond(ctx, lenderID, requestID, decision)
}

var (
	_ services.AuthService          = (*fakeAuthService)(nil)
	_ services.ListingService       = (*fakeListingService)(nil)
	_ services.RentalRequestService = (*fakeRequestService)(nil)
)

var testJWT = auth.NewJWTService(auth.JWTConfig{SecretKey: "controller-secret", TokenExp: time.Hour, TokenIssuer: "test"})

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	token, _, err := testJWT.GenerateToken(&models.User{ID: userID, Email: "u@vitstudent.ac.in"})
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(r http.Handler, method, path, body, authHeader string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestAuthControllerGenerateOTP(t *testing.T) {
	svc := &fakeAuthService{generateOTP: func(_ context.Context, email string) error {
		if email != "a@vitstudent.ac.in" {
			return apperrors.NewCustomError(apperrors.ErrInvalidEmail, "Please provide a valid @vitstudent.ac.in email.")
		}
		return nil
	}}
	r := gin.New()
	r.POST("/api/auth/generate-otp", NewAuthController(svc, zerolog.Nop()).GenerateOTP)

	w := doJSON(r, http.MethodPost, "/api/auth/generate-otp", `{"email":"a@vitstudent.ac.in"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "OTP has been sent to your email.", env.Message)

	w = doJSON(r, http.MethodPost, "/api/auth/generate-otp", `{"email":"a@gmail.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidEmail, decode(t, w).Error.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/generate-otp", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode(t, w).Error.Field)
}

func TestAuthControllerVerifyOTP(t *testing.T) {
	svc := &fakeAuthService{verifyOTP: func(_ context.Context, email, code string) (*dto.AuthResponse, error) {
		if code != "123456" {
			return nil, apperrors.NewCustomError(apperrors.ErrOTPInvalid, "Invalid OTP.")
		}
		return &dto.AuthResponse{Token: "t", User: dto.UserResponse{ID: 1, Name: "John Doe", Email: email}}, nil
	}}
	r := gin.New()
	r.POST("/api/auth/verify-otp", NewAuthController(svc, zerolog.Nop()).VerifyOTP)

	w := doJSON(r, http.MethodPost, "/api/auth/verify-otp", `{"email":"a@vitstudent.ac.in","otp":"123456"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Login successful!", env.Message)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "t", resp.Token)
	assert.Equal(t, "John Doe", resp.User.Name)

	w = doJSON(r, http.MethodPost, "/api/auth/verify-otp", `{"email":"a@vitstudent.ac.in","otp":"000000"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OTP.", decode(t, w).Error.Message)
}

func listingRouter(svc services.ListingService) *gin.Engine {
	r := gin.New()
	c := NewListingController(svc)
	requireAuth := middleware.NewAuthMiddleware(testJWT).JWTAuth()
	r.GET("/api/listings", c.List)
	r.GET("/api/listings/:id", c.GetByID)
	r.POST("/api/listings", requireAuth, c.Create)
	r.PUT("/api/listings/:id", requireAuth, c.Update)
	r.DELETE("/api/listings/:id", requireAuth, c.Delete)
	return r
}

func TestListingControllerList(t *testing.T) {
	var got models.ListingFilter
	svc := &fakeListingService{list: func(_ context.Context, f models.ListingFilter) ([]*models.Listing, error) {
		got = f
		return []*models.Listing{}, nil
	}}

	w := doJSON(listingRouter(svc), http.MethodGet, "/api/listings?item_type=Textbook&sort=oldest&search=calc", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ListingFilter{ItemType: "Textbook", Sort: models.SortOldest, Search: "calc"}, got)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func TestListingControllerGetByID(t *testing.T) {
	svc := &fakeListingService{getByID: func(_ context.Context, id int64) (*models.Listing, error) {
		if id == 1 {
			return &models.Listing{ID: 1, Status: models.ListingLent}, nil
		}
		return nil, apperrors.ErrListingNotFound
	}}
	r := listingRouter(svc)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/listings/1", "", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/listings/2", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/listings/abc", "", "").Code)
}

func TestListingControllerCreateMultipart(t *testing.T) {
	var gotPhoto *multipart.FileHeader
	var gotLender int64
	svc := &fakeListingService{create: func(_ context.Context, lenderID int64, req *dto.CreateListingRequest, photo *multipart.FileHeader) (*models.Listing, error) {
		gotLender, gotPhoto = lenderID, photo
		l := req.ToModel(lenderID)
		l.ID = 5
		return l, nil
	}}
	r := listingRouter(svc)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range map[string]string{
		"item_type": "Textbook", "course_name": "Calculus", "course_code": "MAT1011",
		"contact_details": "98765", "collection_point": "SJT",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("photo", "cover.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, 9))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Listing created successfully!", decode(t, w).Message)
	assert.Equal(t, int64(9), gotLender)
	require.NotNil(t, gotPhoto)
	assert.Equal(t, "cover.jpg", gotPhoto.Filename)
}

func TestListingControllerCreateRequiresAuthAndFields(t *testing.T) {
	svc := &fakeListingService{create: func(context.Context, int64, *dto.CreateListingRequest, *multipart.FileHeader) (*models.Listing, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	r := listingRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/listings", `{"item_type":"Textbook"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/listings", `{"item_type":"Textbook"}`, bearer(t, 9))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please fill out all required fields.", decode(t, w).Error.Message)
}

func TestListingControllerUpdateAndDelete(t *testing.T) {
	svc := &fakeListingService{
		update: func(_ context.Context, id, callerID int64, req *dto.UpdateListingRequest) (*models.Listing, error) {
			if callerID != 9 {
				return nil, apperrors.NewForbiddenError("Not authorized.")
			}
			return &models.Listing{ID: id, LenderID: callerID, Status: req.Status}, nil
		},
		delete: func(_ context.Context, id, callerID int64) error {
			if id != 1 {
				return apperrors.ErrListingNotFound
			}
			return nil
		},
	}
	r := listingRouter(svc)
	body := `{"item_type":"Textbook","course_name":"C","course_code":"M","contact_details":"x","collection_point":"y","status":"LENT"}`

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodPut, "/api/listings/1", body, bearer(t, 9)).Code)

	w := doJSON(r, http.MethodPut, "/api/listings/1", body, bearer(t, 10))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized.", decode(t, w).Error.Message)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/api/listings/1", "", bearer(t, 9)).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/listings/2", "", bearer(t, 9)).Code)
}

func requestRouter(svc services.RentalRequestService) *gin.Engine {
	r := gin.New()
	c := NewRentalRequestController(svc)
	requireAuth := middleware.NewAuthMiddleware(testJWT).JWTAuth()
	r.POST("/api/requests", requireAuth, c.Create)
	r.GET("/api/requests/incoming", requireAuth, c.ListIncoming)
	r.PUT("/api/requests/:id/respond", requireAuth, c.Respond)
	return r
}

func TestRentalRequestControllerCreate(t *testing.T) {
	svc := &fakeRequestService{create: func(_ context.Context, borrowerID, listingID int64) (*models.RentalRequest, error) {
		switch listingID {
		case 1:
			return &models.RentalRequest{ID: 3, ListingID: 1, BorrowerID: borrowerID, Status: models.RequestPending}, nil
		case 2:
			return nil, apperrors.ErrSelfBorrow
		default:
			return nil, apperrors.ErrListingUnavailable
		}
	}}
	r := requestRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/requests", `{"listing_id":1}`, bearer(t, 9))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Your request has been sent.", decode(t, w).Message)

	w = doJSON(r, http.MethodPost, "/api/requests", `{"listing_id":2}`, bearer(t, 9))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot borrow your own item.", decode(t, w).Error.Message)

	w = doJSON(r, http.MethodPost, "/api/requests", `{"listing_id":3}`, bearer(t, 9))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Listing not found or unavailable.", decode(t, w).Error.Message)

	w = doJSON(r, http.MethodPost, "/api/requests", `{}`, bearer(t, 9))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRentalRequestControllerRespond(t *testing.T) {
	var got models.RequestStatus
	svc := &fakeRequestService{respond: func(_ context.Context, lenderID, requestID int64, decision models.RequestStatus) error {
		if !decision.IsDecision() {
			return apperrors.ErrInvalidDecision
		}
		if requestID == 404 {
			return apperrors.ErrRentalRequestNotFound
		}
		got = decision
		return nil
	}}
	r := requestRouter(svc)

	w := doJSON(r, http.MethodPut, "/api/requests/7/respond", `{"decision":"ACCEPTED"}`, bearer(t, 9))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Request accepted.", decode(t, w).Message)
	assert.Equal(t, models.RequestAccepted, got)

	w = doJSON(r, http.MethodPut, "/api/requests/7/respond", `{"decision":"REJECTED"}`, bearer(t, 9))
	assert.Equal(t, "Request rejected.", decode(t, w).Message)

	w = doJSON(r, http.MethodPut, "/api/requests/7/respond", `{"decision":"MAYBE"}`, bearer(t, 9))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid decision.", decode(t, w).Error.Message)

	w = doJSON(r, http.MethodPut, "/api/requests/404/respond", `{"decision":"REJECTED"}`, bearer(t, 9))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRentalRequestControllerIncomingServiceFailure(t *testing.T) {
	svc := &fakeRequestService{listIncoming: func(context.Context, int64) ([]*models.IncomingRequest, error) {
		return nil, errors.New("db down")
	}}

	w := doJSON(requestRouter(svc), http.MethodGet, "/api/requests/incoming", "", bearer(t, 9))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthController(t *testing.T) {
	r := gin.New()
	r.GET("/up", NewHealthController(stubPinger{}).Health)
	r.GET("/down", NewHealthController(stubPinger{err: errors.New("no db")}).Health)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/up", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(r, http.MethodGet, "/down", "", "").Code)
}

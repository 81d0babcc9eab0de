package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/handler"
	"github.com/oklymenko/tripmate/internal/middleware"
	"github.com/oklymenko/tripmate/internal/service"
)

// mockController is a test double for handler.TripController.
// Set only the method fields your test needs.
type mockController struct {
	listMyTrips func(ctx context.Context) ([]domain.Trip, error)
	createTrip  func(ctx context.Context, title, description string, startDate, endDate *time.Time) (domain.Trip, error)
	getTrip     func(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
	updateTrip  func(ctx context.Context, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	deleteTrip  func(ctx context.Context, tripID uuid.UUID) error

	listPlaces  func(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error)
	createPlace func(ctx context.Context, tripID uuid.UUID, locationName, notes string, dayNumber int) (domain.Place, error)
	updatePlace func(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error)
	deletePlace func(ctx context.Context, tripID, placeID uuid.UUID) error

	createInvite func(ctx context.Context, tripID uuid.UUID, email string) (service.CreateResult, error)
	listInvites  func(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error)
	acceptInvite func(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
}

func (m *mockController) ListMyTrips(ctx context.Context) ([]domain.Trip, error) {
	return m.listMyTrips(ctx)
}
func (m *mockController) CreateTrip(ctx context.Context, title, description string, startDate, endDate *time.Time) (domain.Trip, error) {
	return m.createTrip(ctx, title, description, startDate, endDate)
}
func (m *mockController) GetTrip(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	return m.getTrip(ctx, tripID)
}
func (m *mockController) UpdateTrip(ctx context.Context, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	return m.updateTrip(ctx, tripID, upd)
}
func (m *mockController) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	return m.deleteTrip(ctx, tripID)
}
func (m *mockController) ListPlaces(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error) {
	return m.listPlaces(ctx, tripID)
}
func (m *mockController) CreatePlace(ctx context.Context, tripID uuid.UUID, locationName, notes string, dayNumber int) (domain.Place, error) {
	return m.createPlace(ctx, tripID, locationName, notes, dayNumber)
}
func (m *mockController) UpdatePlace(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error) {
	return m.updatePlace(ctx, tripID, placeID, upd)
}
func (m *mockController) DeletePlace(ctx context.Context, tripID, placeID uuid.UUID) error {
	return m.deletePlace(ctx, tripID, placeID)
}
func (m *mockController) CreateInvite(ctx context.Context, tripID uuid.UUID, email string) (service.CreateResult, error) {
	return m.createInvite(ctx, tripID, email)
}
func (m *mockController) ListInvites(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error) {
	return m.listInvites(ctx, tripID)
}
func (m *mockController) AcceptInvite(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	return m.acceptInvite(ctx, tripID)
}

// compile-time check: mockController must satisfy handler.TripController.
var _ handler.TripController = (*mockController)(nil)

// staticProvider hands every identity the same controller.
type staticProvider struct {
	ctrl handler.TripController
}

func (p staticProvider) Controller(_ uuid.UUID, _ string) handler.TripController { return p.ctrl }

// mockAuthServicer is a test double for handler.AuthServicer.
type mockAuthServicer struct {
	register func(ctx context.Context, name, email, password string) (domain.User, string, error)
	signIn   func(ctx context.Context, email, password string) (domain.User, string, error)
	signOut  func(uid uuid.UUID)
}

func (m *mockAuthServicer) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	return m.register(ctx, name, email, password)
}
func (m *mockAuthServicer) SignIn(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.signIn(ctx, email, password)
}
func (m *mockAuthServicer) SignOut(uid uuid.UUID) {
	if m.signOut != nil {
		m.signOut(uid)
	}
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var testIdentity = middleware.Identity{UserID: uuid.New(), Email: "alice@example.com"}

// stubAuth injects a fixed identity, standing in for the bearer middleware.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), testIdentity)))
	})
}

// passThrough is the optional-auth stand-in: no identity is attached.
func passThrough(next http.Handler) http.Handler { return next }

// newHTTPHandler wires a Server with the given mocks into the router the same
// way main.go does in production.
func newHTTPHandler(ctrl handler.TripController, auth handler.AuthServicer) http.Handler {
	srv := handler.NewServer(auth, staticProvider{ctrl: ctrl})
	return srv.Routes(stubAuth, passThrough)
}

func tripResponseFixture() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:            uuid.New(),
		OwnerUID:      testIdentity.UserID,
		Title:         "Rome",
		Description:   "Summer in Italy",
		StartDate:     &start,
		EndDate:       &end,
		Collaborators: []uuid.UUID{},
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	fixture := tripResponseFixture()
	ctrl := &mockController{
		listMyTrips: func(_ context.Context) ([]domain.Trip, error) {
			return []domain.Trip{fixture}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []handler.TripResponse
	decodeBody(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, fixture.ID, got[0].ID)
	assert.Equal(t, "Rome", got[0].Title)
	require.NotNil(t, got[0].StartDate)
	assert.Equal(t, "2025-06-01", got[0].StartDate.Format("2006-01-02"))
}

func TestListTrips_EmptyIsJSONArray(t *testing.T) {
	ctrl := &mockController{
		listMyTrips: func(_ context.Context) ([]domain.Trip, error) { return []domain.Trip{}, nil },
	}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripResponseFixture()
	ctrl := &mockController{
		createTrip: func(_ context.Context, title, _ string, startDate, _ *time.Time) (domain.Trip, error) {
			assert.Equal(t, "Rome", title)
			require.NotNil(t, startDate)
			assert.Equal(t, 2025, startDate.Year())
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"title":       "Rome",
		"description": "Summer in Italy",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-15",
	})
	req := httptest.NewRequest(http.MethodPost, "/trips", body)
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got handler.TripResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, fixture.ID, got.ID)
	assert.NotNil(t, got.Collaborators, "collaborators must serialize as [], not null")
}

func TestCreateTrip_422_Validation(t *testing.T) {
	ctrl := &mockController{
		createTrip: func(_ context.Context, _, _ string, _, _ *time.Time) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips", jsonBody(t, map[string]any{"title": ""}))
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var got handler.ErrorResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, "validation_error", got.Error.Code)
	assert.Equal(t, "title is required", got.Error.Message)
}

func TestCreateTrip_400_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /trips/{tripID} ---------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripResponseFixture()
	ctrl := &mockController{
		getTrip: func(_ context.Context, tripID uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, tripID)
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTrip_404_NoRole(t *testing.T) {
	ctrl := &mockController{
		getTrip: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("op: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var got handler.ErrorResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, "not_found", got.Error.Code)
}

func TestGetTrip_400_BadUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trips/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- PUT /trips/{tripID} ---------------------------------------------------

func TestUpdateTrip_403_Forbidden(t *testing.T) {
	ctrl := &mockController{
		updateTrip: func(_ context.Context, _ uuid.UUID, _ domain.TripUpdate) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("op: %w: %s", domain.ErrForbidden, domain.ActionEditTrip)
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/trips/"+uuid.NewString(), jsonBody(t, map[string]any{"title": "X"}))
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var got handler.ErrorResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, "forbidden", got.Error.Code)
	assert.Equal(t, "editTrip", got.Error.Message, "the denied action is named in the message")
}

// ---- DELETE /trips/{tripID} ------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	fixture := tripResponseFixture()
	ctrl := &mockController{
		deleteTrip: func(_ context.Context, tripID uuid.UUID) error {
			assert.Equal(t, fixture.ID, tripID)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(ctrl, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// ---- GET /healthz ----------------------------------------------------------

func TestHealth_200(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

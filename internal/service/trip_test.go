package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/repo"
	"github.com/oklymenko/tripmate/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
// Think of it like passing a lambda per method in Java or a MagicMock in Python.
type mockTripRepo struct {
	create          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listForUser     func(ctx context.Context, uid uuid.UUID) ([]domain.Trip, error)
	update          func(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	addCollaborator func(ctx context.Context, tripID, uid uuid.UUID) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, uid uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, uid)
}
func (m *mockTripRepo) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, id, upd)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) AddCollaborator(ctx context.Context, tripID, uid uuid.UUID) (domain.Trip, error) {
	return m.addCollaborator(ctx, tripID, uid)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validTrip() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		OwnerUID:    uuid.New(),
		Title:       "Rome",
		Description: "Summer in Italy",
		StartDate:   &start,
		EndDate:     &end,
	}
}

func echoTripRepo() *mockTripRepo {
	// A repo that echoes whatever it receives back — useful for Create/Update
	// tests that only care about validation logic, not what the DB returns.
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, _ uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
			return domain.Trip{Title: upd.Title, Description: upd.Description, StartDate: upd.StartDate, EndDate: upd.EndDate}, nil
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Rome", got.Title)
}

func TestTripService_Create_MissingTitle(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Title = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_StartAfterEnd(t *testing.T) {
	repoCalled := false
	r := echoTripRepo()
	r.create = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		repoCalled = true
		return tr, nil
	}
	svc := service.NewTripService(r)

	trip := validTrip()
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trip.StartDate = &start
	trip.EndDate = &end

	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, repoCalled, "invalid input must be rejected before any repo call")
}

func TestTripService_Create_EqualDates(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	same := *trip.StartDate // a one-day trip is valid
	trip.EndDate = &same

	_, err := svc.Create(context.Background(), trip)

	assert.NoError(t, err)
}

func TestTripService_Create_DatesOptional(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.StartDate = nil
	trip.EndDate = nil

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
}

func TestTripService_Create_StripsCollaborators(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Collaborators = []uuid.UUID{uuid.New()} // must not be honored

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Empty(t, got.Collaborators, "a new trip always starts with no collaborators")
}

func TestTripService_Create_TrimsText(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Title = "  Rome  "
	trip.Description = "  see the sights  "

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, "Rome", got.Title)
	assert.Equal(t, "see the sights", got.Description)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_Valid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	got, err := svc.Update(context.Background(), uuid.New(), domain.TripUpdate{Title: "Rome, revised"})

	require.NoError(t, err)
	assert.Equal(t, "Rome, revised", got.Title)
}

func TestTripService_Update_MissingTitle(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	_, err := svc.Update(context.Background(), uuid.New(), domain.TripUpdate{Title: ""})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_StartAfterEnd(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Update(context.Background(), uuid.New(), domain.TripUpdate{
		Title:     "Rome",
		StartDate: &start,
		EndDate:   &end,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- List tests ------------------------------------------------------------

func TestTripService_ListForUser_EmptyIsNotNil(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		listForUser: func(_ context.Context, _ uuid.UUID) ([]domain.Trip, error) { return nil, nil },
	})

	got, err := svc.ListForUser(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got, "empty list must serialize as [], not null")
	assert.Empty(t, got)
}

// ---- Error passthrough -----------------------------------------------------

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return domain.Trip{}, domain.ErrNotFound },
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/handler"
)

// ---- POST /auth/register ---------------------------------------------------

func TestRegister_201(t *testing.T) {
	auth := &mockAuthServicer{
		register: func(_ context.Context, name, email, password string) (domain.User, string, error) {
			assert.Equal(t, "Ada", name)
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "hunter22", password)
			return domain.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}, "a.b.c", nil
		},
	}

	body := jsonBody(t, map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, auth).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got handler.AuthResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, "ada@example.com", got.User.Email)
	assert.Equal(t, "a.b.c", got.Token)
}

func TestRegister_422_ShortPassword(t *testing.T) {
	auth := &mockAuthServicer{
		register: func(_ context.Context, _, _, _ string) (domain.User, string, error) {
			return domain.User{}, "", fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"email": "ada@example.com", "password": "12345"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, auth).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- POST /auth/login ------------------------------------------------------

func TestSignIn_200(t *testing.T) {
	auth := &mockAuthServicer{
		signIn: func(_ context.Context, email, password string) (domain.User, string, error) {
			return domain.User{ID: uuid.New(), Email: email}, "a.b.c", nil
		},
	}

	body := jsonBody(t, map[string]any{"email": "ada@example.com", "password": "hunter22"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, auth).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got handler.AuthResponse
	decodeBody(t, rec, &got)
	assert.NotEmpty(t, got.Token)
}

func TestSignIn_401_BadCredentials(t *testing.T) {
	auth := &mockAuthServicer{
		signIn: func(_ context.Context, _, _ string) (domain.User, string, error) {
			return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		},
	}

	body := jsonBody(t, map[string]any{"email": "ada@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, auth).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var got handler.ErrorResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, "unauthorized", got.Error.Code)
	assert.Equal(t, "invalid credentials", got.Error.Message)
}

func TestSignIn_400_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, nil))
	req.Body = http.NoBody
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, &mockAuthServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST /auth/logout -----------------------------------------------------

func TestSignOut_204(t *testing.T) {
	var signedOut uuid.UUID
	auth := &mockAuthServicer{
		signOut: func(uid uuid.UUID) { signedOut = uid },
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockController{}, auth).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, testIdentity.UserID, signedOut, "the session identity is what gets signed out")
}

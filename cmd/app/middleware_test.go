package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushihentaime/bloglist/internal/userservice"
)

func TestExtractBearerToken(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{name: "well formed", header: "Bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{name: "mixed case scheme", header: "BeArEr abc.def.ghi", token: "abc.def.ghi", ok: true},
		{name: "wrong scheme", header: "Basic abc", ok: false},
		{name: "scheme only", header: "Bearer", ok: false},
		{name: "scheme with trailing space only", header: "Bearer ", ok: false},
		{name: "token with embedded space", header: "Bearer abc def", ok: false},
		{name: "no scheme", header: "abc.def.ghi", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := extractBearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestRequireAuthUser(t *testing.T) {
	app := &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("anonymous user is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
		r = app.createUserContext(r, &userservice.AnonymousUser)
		w := httptest.NewRecorder()

		app.requireAuthUser(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("authenticated user passes through", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
		r = app.createUserContext(r, &userservice.User{ID: 1, Username: "alice"})
		w := httptest.NewRecorder()

		app.requireAuthUser(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

type discardProducer struct{}

func (discardProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	return nil
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &Config{
		Environment: "test",
		Version:     "test",
	}
	cfg.AuthSecret = "test-secret"
	cfg.AuthTokenTTL = time.Hour

	tokenService := userservice.NewTokenService(cfg.AuthSecret, cfg.AuthTokenTTL)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, tokenService, discardProducer{}),
		blogService: blogservice.NewBlogService(db, cache),
	}

	return app, db
}

// request issues a JSON request against the test server. A non-empty token
// goes out as a bearer Authorization header.
func (ts *testServer) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	if err != nil {
		t.Fatal(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return res
}

func readResponse(t *testing.T, res *http.Response) (int, map[string]any) {
	t.Helper()

	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	if len(responseBody) == 0 {
		return res.StatusCode, nil
	}

	var body map[string]any
	err = json.Unmarshal(responseBody, &body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, body
}

func readListResponse(t *testing.T, res *http.Response) (int, []map[string]any) {
	t.Helper()

	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var body []map[string]any
	err = json.Unmarshal(responseBody, &body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, body
}

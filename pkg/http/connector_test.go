package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type echoRequest struct {
	Value string `json:"value"`
}

type echoResponse struct {
	Echo string `json:"echo"`
}

func newTestConnector(baseURL string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, opts...)
}

func TestDoRequestRoundTripsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var req echoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(echoResponse{Echo: req.Value})
	}))
	defer srv.Close()

	var resp echoResponse
	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/execute", &echoRequest{Value: "print(1)"}, &resp)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	if resp.Echo != "print(1)" {
		t.Errorf("expected echoed value, got %q", resp.Echo)
	}
}

func TestDoRequestNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sandbox unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/execute", nil, nil)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", httpErr.StatusCode)
	}
}

func TestDoRequestConnectionFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/execute", nil, nil)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Unwrap() == nil {
		t.Error("expected a wrapped transport error")
	}
}

func TestDoRequestAttachesAuthToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithAuthToken("secret"), WithRequestLogging())
	if err := c.DoRequest(context.Background(), http.MethodGet, "/execute", nil, nil); err != nil {
		t.Fatalf("do request: %v", err)
	}
	if got != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

// ABOUTME: Tests for X API credential validation.
// ABOUTME: Uses httptest to verify the signed /2/users/me request and error handling.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testCreds = Credentials{
	APIKey:            "key",
	APISecret:         "secret",
	AccessToken:       "token",
	AccessTokenSecret: "token-secret",
}

func TestValidateConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/2/users/me" {
			t.Errorf("expected /2/users/me, got %s", r.URL.Path)
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") || !strings.Contains(auth, `oauth_consumer_key="key"`) {
			t.Errorf("expected OAuth 1.0a signature, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"1","name":"Me","username":"me"}}`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL, testCreds); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"title":"Unauthorized","detail":"Unauthorized","status":401}`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, testCreds)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestValidateConnection_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`internal error`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL, testCreds); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestValidateConnection_MissingCredentials(t *testing.T) {
	if err := ValidateConnection(context.Background(), "http://localhost:1", Credentials{APIKey: "key"}); err == nil {
		t.Fatal("expected error for incomplete credentials")
	}
}

func TestValidateConnection_Unreachable(t *testing.T) {
	if err := ValidateConnection(context.Background(), "http://localhost:1", testCreds); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestValidateConnection_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if err := ValidateConnection(ctx, server.URL, testCreds); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

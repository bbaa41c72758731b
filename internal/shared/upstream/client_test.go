package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSONInjectsBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(Config{Target: "test", BaseURL: server.URL, Timeout: time.Second})
	raw, err := client.GetJSON(context.Background(), "/thing", nil, "tok-1")
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("body = %s", raw)
	}
}

func TestUnauthorizedFiresHook(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		var hookCtx context.Context
		client := New(Config{Target: "test", BaseURL: server.URL, Timeout: time.Second},
			WithAuthFailureHook(func(ctx context.Context) { hookCtx = ctx }))

		ctx := ContextWithSessionID(context.Background(), "sess-1")
		_, err := client.GetJSON(ctx, "/thing", nil, "stale-token")

		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d: err = %v, want ErrUnauthorized", status, err)
		}
		if hookCtx == nil {
			t.Fatalf("status %d: hook not fired", status)
		}
		if id, ok := SessionIDFromContext(hookCtx); !ok || id != "sess-1" {
			t.Errorf("status %d: hook context session = %q/%v", status, id, ok)
		}

		server.Close()
	}
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(Config{Target: "test", BaseURL: server.URL, Timeout: time.Second})
	_, err := client.GetJSON(context.Background(), "/thing", nil, "")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want 500", statusErr.Code)
	}
}

func TestNoHookWithoutFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	fired := false
	client := New(Config{Target: "test", BaseURL: server.URL, Timeout: time.Second},
		WithAuthFailureHook(func(ctx context.Context) { fired = true }))

	if _, err := client.GetJSON(context.Background(), "/thing", nil, "tok"); err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if fired {
		t.Error("hook fired on a successful call")
	}
}

func TestSessionIDContext(t *testing.T) {
	if _, ok := SessionIDFromContext(context.Background()); ok {
		t.Error("empty context must carry no session id")
	}

	ctx := ContextWithSessionID(context.Background(), "sess-9")
	if id, ok := SessionIDFromContext(ctx); !ok || id != "sess-9" {
		t.Errorf("got %q/%v", id, ok)
	}
}

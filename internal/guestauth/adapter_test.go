package guestauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"darshan/internal/shared/upstream"
)

func newHTTPAdapter(t *testing.T, handler http.HandlerFunc) Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := upstream.New(upstream.Config{
		Target:  "guest-auth",
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})
	return NewAdapter(client)
}

func TestRequestOTPMobileForm(t *testing.T) {
	var gotForm url.Values
	var gotQuery url.Values
	adapter := newHTTPAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guest/login" {
			t.Errorf("path = %s, want /guest/login", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s", ct)
		}
		r.ParseForm()
		gotForm = r.PostForm
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"success":true}`))
	})

	if err := adapter.RequestOTP(context.Background(), ChannelMobile, "9876543210"); err != nil {
		t.Fatalf("RequestOTP returned error: %v", err)
	}

	if gotForm.Get("mobileNo") != "9876543210" {
		t.Errorf("mobileNo = %q", gotForm.Get("mobileNo"))
	}
	if gotForm.Get("email") != "" {
		t.Error("mobile login must not carry an email field")
	}
	if gotQuery.Get("isEmailVerify") != "false" {
		t.Errorf("isEmailVerify = %q, want false", gotQuery.Get("isEmailVerify"))
	}
}

func TestRequestOTPEmailForm(t *testing.T) {
	var gotForm url.Values
	var gotQuery url.Values
	adapter := newHTTPAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	})

	if err := adapter.RequestOTP(context.Background(), ChannelEmail, "visitor@example.com"); err != nil {
		t.Fatalf("RequestOTP returned error: %v", err)
	}

	if gotForm.Get("email") != "visitor@example.com" {
		t.Errorf("email = %q", gotForm.Get("email"))
	}
	if gotQuery.Get("isEmailVerify") != "true" {
		t.Errorf("isEmailVerify = %q, want true", gotQuery.Get("isEmailVerify"))
	}
}

func TestRequestOTPBackendRejection(t *testing.T) {
	adapter := newHTTPAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"number blocked"}`))
	})

	err := adapter.RequestOTP(context.Background(), ChannelMobile, "9876543210")
	if err == nil {
		t.Fatal("expected error for success=false response")
	}
}

func TestVerifyOTPUnwrapsToken(t *testing.T) {
	bodies := map[string]string{
		"bare":        `{"token":"tok-1","tokenExpiry":1890000000000}`,
		"one level":   `{"result":{"token":"tok-1","tokenExpiry":1890000000000}}`,
		"two levels":  `{"result":{"result":{"token":"tok-1","tokenExpiry":1890000000000}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			adapter := newHTTPAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/guest/verify" {
					t.Errorf("path = %s, want /guest/verify", r.URL.Path)
				}
				r.ParseForm()
				if r.PostForm.Get("otp") != "123456" {
					t.Errorf("otp = %q", r.PostForm.Get("otp"))
				}
				w.Write([]byte(body))
			})

			token, err := adapter.VerifyOTP(context.Background(), ChannelMobile, "9876543210", "123456")
			if err != nil {
				t.Fatalf("VerifyOTP returned error: %v", err)
			}
			if token.Token != "tok-1" || token.TokenExpiry != 1890000000000 {
				t.Errorf("token = %+v", token)
			}
		})
	}
}

func TestVerifyOTPNoToken(t *testing.T) {
	adapter := newHTTPAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"message":"wrong otp"}}`))
	})

	_, err := adapter.VerifyOTP(context.Background(), ChannelMobile, "9876543210", "000000")
	if !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("err = %v, want ErrVerificationFailed", err)
	}
}

package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer pk_test_abc123" {
			t.Errorf("Authorization = %s", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}

		switch r.PostForm.Get("card[number]") {
		case "4242424242424242":
			w.Write([]byte(`{"id":"tok_visa_1","object":"token"}`))
		default:
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"type":"card_error","message":"Your card number is incorrect."}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testField(t *testing.T) *CardField {
	t.Helper()

	srv := tokenServer(t)
	f, err := Mount(Config{PublishableKey: "pk_test_abc123", TokenURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestMountRequiresKey(t *testing.T) {
	if _, err := Mount(Config{}); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestTokenize(t *testing.T) {
	f := testField(t)
	defer f.Unmount()

	card := Card{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2027", CVC: "123"}
	token, err := f.Tokenize(context.Background(), card)
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok_visa_1" {
		t.Errorf("token = %s, want tok_visa_1", token)
	}
}

func TestTokenizeBadCard(t *testing.T) {
	f := testField(t)
	defer f.Unmount()

	card := Card{Number: "1234", ExpMonth: "12", ExpYear: "2027", CVC: "123"}
	_, err := f.Tokenize(context.Background(), card)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "incorrect") {
		t.Errorf("error = %v, want provider message", err)
	}
}

func TestTokenizeAfterUnmount(t *testing.T) {
	f := testField(t)
	f.Unmount()
	f.Unmount() // idempotent

	card := Card{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2027", CVC: "123"}
	if _, err := f.Tokenize(context.Background(), card); !errors.Is(err, ErrUnmounted) {
		t.Errorf("err = %v, want ErrUnmounted", err)
	}
}

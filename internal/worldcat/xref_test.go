package worldcat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/cesargomez89/bookwall/internal/httpclient"
	"github.com/cesargomez89/bookwall/internal/signature"
)

func newTestSigner(t *testing.T) (*signature.Service, func()) {
	t.Helper()
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"origin": "192.0.2.44"}`)
	}))
	return signature.NewService(httpclient.NewClient(echo.Client()), echo.URL, "secret"), echo.Close
}

func TestXRefClient_Editions(t *testing.T) {
	signer, closeEcho := newTestSigner(t)
	defer closeEcho()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "getEditions" || q.Get("format") != "xml" || q.Get("fl") != "oclcnum" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("token") != "tok" {
			t.Errorf("token = %s, want tok", q.Get("token"))
		}
		if len(q.Get("hash")) != 32 {
			t.Errorf("hash = %q, want 32 hex chars", q.Get("hash"))
		}
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rsp xmlns="http://worldcat.org/xid/oclcnum/" stat="ok">
  <oclcnum>111</oclcnum>
  <oclcnum>222</oclcnum>
  <oclcnum>333</oclcnum>
</rsp>`)
	}))
	defer srv.Close()

	client := NewXRefClient(httpclient.NewClient(srv.Client()), signer, srv.URL, "tok")
	got, err := client.Editions(context.Background(), "111")
	if err != nil {
		t.Fatalf("Editions failed: %v", err)
	}
	want := []string{"111", "222", "333"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Editions() = %v, want %v", got, want)
	}
}

func TestXRefClient_Editions_UpstreamError(t *testing.T) {
	signer, closeEcho := newTestSigner(t)
	defer closeEcho()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewXRefClient(httpclient.NewClient(srv.Client()), signer, srv.URL, "tok")
	if _, err := client.Editions(context.Background(), "111"); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestXRefClient_Editions_SignerFailure(t *testing.T) {
	// Echo endpoint that always fails: signing cannot proceed.
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer echo.Close()
	signer := signature.NewService(httpclient.NewClient(echo.Client()), echo.URL, "secret")

	client := NewXRefClient(httpclient.NewClient(nil), signer, "http://example.invalid", "tok")
	if _, err := client.Editions(context.Background(), "111"); err == nil {
		t.Error("expected error when signing fails")
	}
}

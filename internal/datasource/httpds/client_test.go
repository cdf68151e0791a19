package httpds_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pitchboard/internal/datasource"
	"pitchboard/internal/datasource/httpds"
)

func TestOpen_FetchesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "country\nJapan\n")
	}))
	defer srv.Close()

	rc, err := httpds.New(srv.URL, srv.Client()).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "country\nJapan\n" {
		t.Fatalf("read %q", data)
	}
}

/*
TestOpen_NotFoundSentinel verifies a 404 maps to datasource.ErrNotFound; the
loader's missing-export recovery depends on it.
*/
func TestOpen_NotFoundSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := httpds.New(srv.URL, srv.Client())
	if _, err := c.Open(context.Background()); !errors.Is(err, datasource.ErrNotFound) {
		t.Fatalf("Open err = %v, want datasource.ErrNotFound", err)
	}
	if _, err := c.Version(context.Background()); !errors.Is(err, datasource.ErrNotFound) {
		t.Fatalf("Version err = %v, want datasource.ErrNotFound", err)
	}
}

func TestOpen_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := httpds.New(srv.URL, srv.Client()).Open(context.Background())
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("err = %v, want a status error", err)
	}
}

/*
TestVersion_Validators verifies the revision token comes from the response
validators and that a validator-less server yields an empty token, which
disables caching instead of serving stale data.
*/
func TestVersion_Validators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("ETag", `"rev-7"`)
	}))
	defer srv.Close()

	tok, err := httpds.New(srv.URL, srv.Client()).Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if !strings.Contains(tok, "rev-7") {
		t.Fatalf("token %q does not carry the ETag", tok)
	}

	bare := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer bare.Close()
	tok, err = httpds.New(bare.URL, bare.Client()).Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if tok != "" {
		t.Fatalf("token = %q, want empty for a validator-less server", tok)
	}
}

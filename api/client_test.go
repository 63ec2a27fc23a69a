////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

// Tests that GetEmoji decodes the backend record fields.
func TestClient_GetEmoji(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/emoji/5100" {
				t.Errorf("Unexpected request path: %s", r.URL.Path)
			}
			fmt.Fprint(w, `{"id":"5100","short_name":"grin",`+
				`"file_type":"tgs","file_url":"https://cdn/x.tgs",`+
				`"is_animated":true,"width":100,"height":100}`)
		}))
	defer srv.Close()

	rec, err := NewClient(srv.URL).GetEmoji("5100")
	if err != nil {
		t.Fatalf("GetEmoji failed: %+v", err)
	}

	if rec.ID != "5100" || rec.ShortName != "grin" ||
		string(rec.FileType) != "tgs" || !rec.IsAnimated {
		t.Errorf("Unexpected record.\nreceived: %+v", rec)
	}
}

// Tests that a backend 404 maps to ErrNotFound.
func TestClient_GetEmoji_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(srv.URL).GetEmoji("404")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Unexpected error.\nexpected: %v\nreceived: %+v",
			ErrNotFound, err)
	}
}

// Tests that GetEmojis returns only the successfully resolved subset.
func TestClient_GetEmojis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/emoji/1", "/emoji/2":
				fmt.Fprintf(w, `{"id":%q}`, r.URL.Path[len("/emoji/"):])
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
	defer srv.Close()

	records := NewClient(srv.URL).GetEmojis([]string{"1", "missing", "2"})

	var ids []string
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	sort.Strings(ids)

	expected := []string{"1", "2"}
	if len(ids) != len(expected) || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("Unexpected resolved subset.\nexpected: %v\nreceived: %v",
			expected, ids)
	}
}

// Tests that GetEmojis issues one request per unique ID, collapsing
// duplicates before the fan-out.
func TestClient_GetEmojis_Duplicates(t *testing.T) {
	var mux sync.Mutex
	hits := make(map[string]int)

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			mux.Lock()
			hits[r.URL.Path]++
			mux.Unlock()
			fmt.Fprintf(w, `{"id":%q}`, r.URL.Path[len("/emoji/"):])
		}))
	defer srv.Close()

	records := NewClient(srv.URL).GetEmojis([]string{"1", "1", "2", "1"})

	if len(records) != 2 {
		t.Errorf("Unexpected record count.\nexpected: %d\nreceived: %d",
			2, len(records))
	}
	for path, n := range hits {
		if n != 1 {
			t.Errorf("Duplicate request for %s.\nexpected: %d\nreceived: %d",
				path, 1, n)
		}
	}
}

// Tests that GetPack escapes the pack selector into the query string and
// decodes the pack.
func TestClient_GetPack(t *testing.T) {
	const packURL = "https://t.me/addemoji/CatPack"

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/pack" {
				t.Errorf("Unexpected request path: %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("url"); got != packURL {
				t.Errorf("Unexpected url parameter."+
					"\nexpected: %q\nreceived: %q", packURL, got)
			}
			fmt.Fprint(w, `{"name":"CatPack","title":"Cat Pack",`+
				`"sticker_type":"custom_emoji",`+
				`"stickers":[{"id":"1"},{"id":"2"}]}`)
		}))
	defer srv.Close()

	p, err := NewClient(srv.URL).GetPack(packURL)
	if err != nil {
		t.Fatalf("GetPack failed: %+v", err)
	}

	if p.Name != "CatPack" || len(p.Stickers) != 2 {
		t.Errorf("Unexpected pack.\nreceived: %+v", p)
	}
}

// Tests that GetManifest hits the manifest endpoint.
func TestClient_GetManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/manifest/CatPack" {
				t.Errorf("Unexpected request path: %s", r.URL.Path)
			}
			fmt.Fprint(w, `{"name":"CatPack"}`)
		}))
	defer srv.Close()

	p, err := NewClient(srv.URL).GetManifest("CatPack")
	if err != nil {
		t.Fatalf("GetManifest failed: %+v", err)
	}
	if p.Name != "CatPack" {
		t.Errorf("Unexpected pack name.\nexpected: %q\nreceived: %q",
			"CatPack", p.Name)
	}
}

// Tests Ping against healthy and unhealthy backends.
func TestClient_Ping(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("Unexpected request path: %s", r.URL.Path)
			}
		}))
	defer healthy.Close()

	if err := NewClient(healthy.URL).Ping(); err != nil {
		t.Errorf("Ping against healthy backend failed: %+v", err)
	}

	unhealthy := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
	defer unhealthy.Close()

	if err := NewClient(unhealthy.URL).Ping(); err == nil {
		t.Error("Ping against unhealthy backend did not fail.")
	}
}

// Tests that a malformed response body is reported as an error.
func TestClient_GetEmoji_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "not json")
		}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).GetEmoji("1"); err == nil {
		t.Error("Malformed response did not produce an error.")
	}
}

// Tests that trailing slashes are stripped from the base URL.
func TestNewClient_TrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("Trailing slash not stripped.\nexpected: %q\nreceived: %q",
			"http://localhost:8000", c.BaseURL())
	}

	c.SetBaseURL("http://example.com/api/")
	if c.BaseURL() != "http://example.com/api" {
		t.Errorf("Trailing slash not stripped on SetBaseURL."+
			"\nexpected: %q\nreceived: %q", "http://example.com/api",
			c.BaseURL())
	}
}

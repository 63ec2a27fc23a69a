////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package api is a stateless HTTP facade over the TMoji proxy backend. Under
// js/wasm the requests go through the browser fetch API; compiled natively
// (for the packfetch tool and tests) they use the normal net/http transport.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aquilax/truncate"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
)

// ErrNotFound is returned when the backend reports HTTP 404 for a record.
// Callers treat it as an explicit absent result, not a transport failure.
var ErrNotFound = errors.New("record not found")

// logBodyLimit caps response bodies printed to the debug log.
const logBodyLimit = 256

// Client issues read requests against the proxy backend.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient creates a client for the backend at the given base URL. A
// trailing slash is stripped.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      http.DefaultClient,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetBaseURL replaces the backend base URL. A trailing slash is stripped.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// GetEmoji fetches a single emoji record by its ID. Returns ErrNotFound if
// the backend does not know the ID.
func (c *Client) GetEmoji(id string) (*emoji.Record, error) {
	rec := &emoji.Record{}
	if err := c.getJSON("/emoji/"+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetEmojis fetches many emoji records by ID, one request per unique ID
// issued concurrently. Only the successfully resolved subset is returned;
// each ID is looked up independently and no ordering is guaranteed.
func (c *Client) GetEmojis(ids []string) []*emoji.Record {
	var (
		records []*emoji.Record
		mux     sync.Mutex
		wg      sync.WaitGroup
	)

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			rec, err := c.GetEmoji(id)
			if err != nil {
				jww.WARN.Printf("Skipping emoji %s: %+v", id, err)
				return
			}
			mux.Lock()
			records = append(records, rec)
			mux.Unlock()
		}(id)
	}
	wg.Wait()

	return records
}

// GetPack fetches a pack by a t.me link or a raw pack name. Returns
// ErrNotFound if the backend does not know the pack.
func (c *Client) GetPack(urlOrName string) (*emoji.Pack, error) {
	p := &emoji.Pack{}
	path := "/pack?url=" + url.QueryEscape(urlOrName)
	if err := c.getJSON(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetManifest fetches the manifest for a pack by its ID. Returns ErrNotFound
// if the backend does not know the pack.
func (c *Client) GetManifest(packID string) (*emoji.Pack, error) {
	p := &emoji.Pack{}
	if err := c.getJSON("/manifest/"+packID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Ping probes the backend health endpoint.
func (c *Client) Ping() error {
	resp, err := c.hc.Get(c.baseURL + "/health")
	if err != nil {
		return errors.Wrap(err, "backend unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("backend unhealthy: %s", resp.Status)
	}
	return nil
}

// getJSON issues a GET for the given path and decodes the response body into
// v. HTTP 404 maps to ErrNotFound; any other non-success status or transport
// failure is returned as an error.
func (c *Client) getJSON(path string, v any) error {
	reqURL := c.baseURL + path

	resp, err := c.hc.Get(reqURL)
	if err != nil {
		return errors.Wrapf(err, "request for %s failed", reqURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	} else if resp.StatusCode != http.StatusOK {
		return errors.Errorf("request for %s returned status %s",
			reqURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading response for %s failed", reqURL)
	}

	jww.DEBUG.Printf("Received %d bytes from %s: %s", len(body), reqURL,
		truncate.Truncate(string(body), logBodyLimit, "...",
			truncate.PositionEnd))

	if err = json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "malformed response for %s", reqURL)
	}

	return nil
}

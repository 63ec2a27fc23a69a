////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package tmoji

import (
	"time"

	"github.com/CORBENDALLAS111/Tmoji-Web/cache"
	"github.com/CORBENDALLAS111/Tmoji-Web/render"
)

// Config carries the tunable settings for a Tmoji instance. The zero value of
// any field selects its default.
type Config struct {
	// BaseURL is the proxy backend address.
	BaseURL string `json:"baseUrl"`

	// DefaultSize is the rendered emoji size in pixels.
	DefaultSize int `json:"defaultSize"`

	// Animated starts playback immediately for animated formats unless a
	// render call overrides it.
	Animated bool `json:"animated"`

	// CacheDuration is the cache freshness window in milliseconds.
	CacheDuration int64 `json:"cacheDuration"`

	// CacheCapacity is the in-process cache capacity in entries.
	CacheCapacity int `json:"cacheCapacity"`

	// LazyMargin is the visibility margin for lazy rendering, in CSS margin
	// syntax.
	LazyMargin string `json:"lazyMargin"`

	// FallbackEmoji is the glyph shown when an asset cannot be rendered and
	// the record carries no unicode fallback of its own.
	FallbackEmoji string `json:"fallbackEmoji"`
}

// DefaultConfig returns the settings used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8000",
		DefaultSize:   render.DefaultSize,
		Animated:      true,
		CacheDuration: cache.DefaultDuration.Milliseconds(),
		CacheCapacity: cache.DefaultCapacity,
		LazyMargin:    render.DefaultMargin,
		FallbackEmoji: "❓",
	}
}

// withDefaults fills every unset field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.DefaultSize <= 0 {
		c.DefaultSize = def.DefaultSize
	}
	if c.CacheDuration <= 0 {
		c.CacheDuration = def.CacheDuration
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = def.CacheCapacity
	}
	if c.LazyMargin == "" {
		c.LazyMargin = def.LazyMargin
	}
	if c.FallbackEmoji == "" {
		c.FallbackEmoji = def.FallbackEmoji
	}
	return c
}

// cacheWindow converts the configured freshness window to a duration.
func (c Config) cacheWindow() time.Duration {
	return time.Duration(c.CacheDuration) * time.Millisecond
}

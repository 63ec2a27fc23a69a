////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

// Package wasm exposes the emoji rendering API to Javascript. Each binding
// parses its Javascript arguments, calls into the tmoji package, and converts
// the result back, returning promises for operations that can block.
package wasm

import (
	"encoding/json"
	"syscall/js"

	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
	"github.com/CORBENDALLAS111/Tmoji-Web/tmoji"
	"github.com/CORBENDALLAS111/Tmoji-Web/utils"
)

// Tmoji wraps the [tmoji.Tmoji] object so its methods can be wrapped to match
// the Javascript API.
type Tmoji struct {
	api *tmoji.Tmoji
}

// newTmojiJS creates a new Javascript compatible object (map[string]any) that
// matches the [Tmoji] structure.
func newTmojiJS(api *tmoji.Tmoji) map[string]any {
	t := Tmoji{api}
	tmojiMap := map[string]any{
		"LoadPack":       js.FuncOf(t.LoadPack),
		"LoadManifest":   js.FuncOf(t.LoadManifest),
		"GetEmoji":       js.FuncOf(t.GetEmoji),
		"RenderTo":       js.FuncOf(t.RenderTo),
		"LazyRender":     js.FuncOf(t.LazyRender),
		"RenderText":     js.FuncOf(t.RenderText),
		"RenderMarkup":   js.FuncOf(t.RenderMarkup),
		"ParseAll":       js.FuncOf(t.ParseAll),
		"LoadAll":        js.FuncOf(t.LoadAll),
		"Cleanup":        js.FuncOf(t.Cleanup),
		"GetByName":      js.FuncOf(t.GetByName),
		"GetLoadedPacks": js.FuncOf(t.GetLoadedPacks),
		"ClearCache":     js.FuncOf(t.ClearCache),
		"SetBaseURL":     js.FuncOf(t.SetBaseURL),
		"Ping":           js.FuncOf(t.Ping),
		"Destroy":        js.FuncOf(t.Destroy),
	}

	return tmojiMap
}

// NewTmoji constructs a Tmoji instance.
//
// Parameters:
//   - args[0] - Configuration object (object). May be null or omitted to use
//     the defaults. Recognised fields match [tmoji.Config]: baseUrl,
//     defaultSize, animated, cacheDuration, cacheCapacity, lazyMargin, and
//     fallbackEmoji.
//
// Returns:
//   - A Javascript representation of the [Tmoji] object.
//   - A TypeError if the configuration cannot be parsed.
func NewTmoji(_ js.Value, args []js.Value) any {
	cfg := tmoji.DefaultConfig()

	if len(args) > 0 && !args[0].IsUndefined() && !args[0].IsNull() {
		err := json.Unmarshal([]byte(utils.JsToJson(args[0])), &cfg)
		if err != nil {
			return utils.NewException(utils.TypeError, err)
		}
	}

	return newTmojiJS(tmoji.New(cfg))
}

// LoadPack loads an emoji pack by a t.me link or a raw pack name and indexes
// it for name lookups.
//
// Parameters:
//   - args[0] - Pack URL or name (string).
//
// Returns a promise:
//   - Resolves to the pack (object).
//   - Rejected with an error if loading the pack fails.
func (t *Tmoji) LoadPack(_ js.Value, args []js.Value) any {
	urlOrName := args[0].String()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		p, err := t.api.LoadPack(urlOrName)
		if err != nil {
			reject(utils.JsError(err))
			return
		}

		obj, err := packToJS(p)
		if err != nil {
			reject(utils.JsError(err))
			return
		}
		resolve(obj)
	}

	return utils.CreatePromise(promiseFn)
}

// LoadManifest fetches a pack manifest by pack ID without rendering anything.
//
// Parameters:
//   - args[0] - Pack ID (string).
//
// Returns a promise:
//   - Resolves to the pack (object).
//   - Rejected with an error if fetching the manifest fails.
func (t *Tmoji) LoadManifest(_ js.Value, args []js.Value) any {
	packID := args[0].String()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		p, err := t.api.LoadManifest(packID)
		if err != nil {
			reject(utils.JsError(err))
			return
		}

		obj, err := packToJS(p)
		if err != nil {
			reject(utils.JsError(err))
			return
		}
		resolve(obj)
	}

	return utils.CreatePromise(promiseFn)
}

// GetEmoji returns the record for an emoji ID, consulting the cache first.
//
// Parameters:
//   - args[0] - Emoji ID (string).
//
// Returns a promise:
//   - Resolves to the emoji record (object).
//   - Rejected with an error if the emoji cannot be resolved.
func (t *Tmoji) GetEmoji(_ js.Value, args []js.Value) any {
	id := args[0].String()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		rec, err := t.api.GetEmoji(id)
		if err != nil {
			reject(utils.JsError(err))
			return
		}

		data, err := json.Marshal(rec)
		if err != nil {
			reject(utils.JsError(err))
			return
		}
		obj, err := utils.JsonToJS(data)
		if err != nil {
			reject(utils.JsError(err))
			return
		}
		resolve(obj)
	}

	return utils.CreatePromise(promiseFn)
}

// RenderTo renders an emoji into a container and waits for the render to
// settle.
//
// Parameters:
//   - args[0] - Target container (Element).
//   - args[1] - Emoji ID (string).
//   - args[2] - Render options (object); see [optionsFromJS]. May be omitted.
//
// Returns a promise:
//   - Resolves (to nothing) once the emoji has rendered.
//   - Rejected with an error if the emoji cannot be resolved or rendered. The
//     fallback glyph is shown in the container in that case.
func (t *Tmoji) RenderTo(_ js.Value, args []js.Value) any {
	container := args[0]
	id := args[1].String()
	opts := optionsFromJS(args, 2, t.api.Config())

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		if err := t.api.RenderTo(container, id, opts); err != nil {
			reject(utils.JsError(err))
			return
		}
		resolve()
	}

	return utils.CreatePromise(promiseFn)
}

// LazyRender defers rendering an emoji until its container approaches the
// viewport. A record that cannot be resolved degrades to a silent fallback
// glyph.
//
// Parameters:
//   - args[0] - Target container (Element).
//   - args[1] - Emoji ID (string).
//   - args[2] - Render options (object); see [optionsFromJS]. May be omitted.
//
// Returns a promise:
//   - Resolves (to nothing) once the registration is made; the render itself
//     happens later.
func (t *Tmoji) LazyRender(_ js.Value, args []js.Value) any {
	container := args[0]
	id := args[1].String()
	opts := optionsFromJS(args, 2, t.api.Config())

	promiseFn := func(resolve, _ func(args ...any) js.Value) {
		t.api.LazyRender(container, id, opts)
		resolve()
	}

	return utils.CreatePromise(promiseFn)
}

// RenderText renders a text string into a container, replacing {emoji:<id>}
// placeholders and :name: short names with lazily rendered emoji.
//
// Parameters:
//   - args[0] - Target container (Element).
//   - args[1] - Text to render (string).
//   - args[2] - Render options (object); see [optionsFromJS]. May be omitted.
//
// Returns a promise:
//   - Resolves to the number of emoji placeholders rendered (int).
func (t *Tmoji) RenderText(_ js.Value, args []js.Value) any {
	container := args[0]
	text := args[1].String()
	opts := optionsFromJS(args, 2, t.api.Config())

	promiseFn := func(resolve, _ func(args ...any) js.Value) {
		resolve(t.api.RenderText(container, text, opts))
	}

	return utils.CreatePromise(promiseFn)
}

// RenderMarkup renders a markup string into a container and lazily renders
// the <tmoji id="..."> and emoji-id="..." placeholders it carries.
//
// Parameters:
//   - args[0] - Target container (Element).
//   - args[1] - Markup to render (string).
//   - args[2] - Render options (object); see [optionsFromJS]. May be omitted.
//
// Returns a promise:
//   - Resolves to the number of emoji placeholders rendered (int).
func (t *Tmoji) RenderMarkup(_ js.Value, args []js.Value) any {
	container := args[0]
	markup := args[1].String()
	opts := optionsFromJS(args, 2, t.api.Config())

	promiseFn := func(resolve, _ func(args ...any) js.Value) {
		resolve(t.api.RenderMarkup(container, markup, opts))
	}

	return utils.CreatePromise(promiseFn)
}

// ParseAll scans a DOM subtree for <tmoji id=...> elements and elements with
// an emoji-id attribute and lazily renders each in place.
//
// Parameters:
//   - args[0] - Root node to scan (Node). May be null to scan the whole
//     document.
//   - args[1] - Render options (object); see [optionsFromJS]. May be omitted.
//
// Returns a promise:
//   - Resolves to the number of placeholders found (int).
func (t *Tmoji) ParseAll(_ js.Value, args []js.Value) any {
	root := js.Null()
	if len(args) > 0 {
		root = args[0]
	}
	opts := optionsFromJS(args, 1, t.api.Config())

	promiseFn := func(resolve, _ func(args ...any) js.Value) {
		resolve(t.api.ParseAll(root, opts))
	}

	return utils.CreatePromise(promiseFn)
}

// LoadAll force-renders every lazily registered container, regardless of
// visibility.
func (t *Tmoji) LoadAll(js.Value, []js.Value) any {
	t.api.LoadAll()
	return nil
}

// Cleanup tears down whatever is rendered in a container.
//
// Parameters:
//   - args[0] - Target container (Element).
func (t *Tmoji) Cleanup(_ js.Value, args []js.Value) any {
	t.api.Cleanup(args[0])
	return nil
}

// GetByName resolves a short name to an emoji ID through the loaded-pack
// index.
//
// Parameters:
//   - args[0] - Emoji short name (string).
//
// Returns:
//   - The emoji ID (string), or null when the name is unknown.
func (t *Tmoji) GetByName(_ js.Value, args []js.Value) any {
	if id, exists := t.api.GetByName(args[0].String()); exists {
		return id
	}
	return nil
}

// GetLoadedPacks returns the names of the loaded packs, sorted.
//
// Returns:
//   - Pack names (Array of string).
func (t *Tmoji) GetLoadedPacks(js.Value, []js.Value) any {
	names := t.api.GetLoadedPacks()
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}

// ClearCache empties both cache tiers and the pack and name indexes.
func (t *Tmoji) ClearCache(js.Value, []js.Value) any {
	t.api.ClearCache()
	return nil
}

// SetBaseURL points the client at a different proxy backend.
//
// Parameters:
//   - args[0] - Proxy backend address (string).
func (t *Tmoji) SetBaseURL(_ js.Value, args []js.Value) any {
	t.api.SetBaseURL(args[0].String())
	return nil
}

// Ping probes the proxy backend health endpoint.
//
// Returns a promise:
//   - Resolves (to nothing) when the backend is healthy.
//   - Rejected with an error otherwise.
func (t *Tmoji) Ping(js.Value, []js.Value) any {
	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		if err := t.api.Ping(); err != nil {
			reject(utils.JsError(err))
			return
		}
		resolve()
	}

	return utils.CreatePromise(promiseFn)
}

// Destroy disconnects the lazy scheduler. The object must not be used
// afterward.
func (t *Tmoji) Destroy(js.Value, []js.Value) any {
	t.api.Destroy()
	return nil
}

// packToJS converts a pack to its Javascript object form.
func packToJS(p *emoji.Pack) (js.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return js.Null(), err
	}

	return utils.JsonToJS(data)
}

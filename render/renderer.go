////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

// Package render places emoji assets into DOM containers. The renderer
// dispatches on the record's file type, manages one playback-engine instance
// per container through an explicit registry, and signals completion through
// a load/error callback pair.
package render

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"syscall/js"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/assetdb"
	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
	"github.com/CORBENDALLAS111/Tmoji-Web/lottie"
	"github.com/CORBENDALLAS111/Tmoji-Web/utils"
)

const (
	// ClassName is the semantic class applied to every rendered container.
	ClassName = "tmoji-emoji"

	// handleAttr is the attribute carrying the stable container handle that
	// keys the player registry. Containers are tagged on first render.
	handleAttr = "data-tmoji-id"

	// DefaultSize is the rendered size, in pixels, when the caller supplies
	// none.
	DefaultSize = 24
)

// Options control a single render call.
type Options struct {
	// Size is the rendered width and height in pixels. Zero selects the
	// renderer default.
	Size int

	// Animated starts playback immediately for animated formats.
	Animated bool

	// ClassName holds extra classes appended after the semantic class.
	ClassName string

	// Style holds extra inline CSS appended after the base style.
	Style string

	// Alt overrides the image alt text. Empty falls back to the record's
	// short name, then to the record's glyph or the configured fallback.
	Alt string

	// OnLoad is invoked once the container has been populated. OnError is
	// invoked with the failure instead. The vector fallback path may invoke
	// both: the thumbnail's OnLoad and the outer OnError.
	OnLoad  func()
	OnError func(error)
}

// Renderer renders emoji records into containers and owns the playback-engine
// instances it creates, keyed by container handle.
type Renderer struct {
	defaultSize int
	fallback    string

	// assets caches downloaded animation payloads. May be nil, in which case
	// every vector render fetches from the network.
	assets *assetdb.AssetDB

	players map[string]*lottie.Player

	// generations guards against superseded renders: an in-flight render
	// whose generation no longer matches discards its result instead of
	// mutating the container.
	generations map[string]uint64

	nextHandle uint64
	mux        sync.Mutex
}

// New creates a Renderer. The fallback glyph is shown when an asset cannot be
// rendered and the record carries no glyph of its own; assets may be nil to
// disable payload caching.
func New(defaultSize int, fallback string, assets *assetdb.AssetDB) *Renderer {
	if defaultSize <= 0 {
		defaultSize = DefaultSize
	}
	return &Renderer{
		defaultSize: defaultSize,
		fallback:    fallback,
		assets:      assets,
		players:     make(map[string]*lottie.Player),
		generations: make(map[string]uint64),
	}
}

// Handle returns the stable handle for a container, tagging the container on
// first use.
func (r *Renderer) Handle(container js.Value) string {
	h := container.Call("getAttribute", handleAttr)
	if !h.IsNull() && h.String() != "" {
		return h.String()
	}

	r.mux.Lock()
	r.nextHandle++
	tag := strconv.FormatUint(r.nextHandle, 10)
	r.mux.Unlock()

	container.Call("setAttribute", handleAttr, tag)
	return tag
}

// Render renders the record into the container, replacing any previous
// content. Exactly one of opts.OnLoad and opts.OnError fires per call, except
// on the vector fallback path (see Options). Concurrent calls on the same
// container are not serialized; the newest call wins, and an in-flight older
// call leaves the DOM alone and signals OnError.
func (r *Renderer) Render(container js.Value, rec *emoji.Record, opts Options) {
	onLoad, onError := opts.callbacks()

	h := r.Handle(container)
	gen := r.begin(h)

	size := opts.Size
	if size <= 0 {
		size = r.defaultSize
	}
	r.styleContainer(container, size, opts)
	container.Set("innerHTML", "")

	switch rec.FileType {
	case emoji.TGS:
		go r.renderVector(container, h, gen, rec, opts, onLoad, onError)
	case emoji.WEBM:
		r.renderVideo(container, rec, size, opts, onLoad, onError)
	case emoji.GIF, emoji.PNG:
		r.renderImage(container, rec.FileURL, r.altText(rec, opts),
			r.fallbackGlyph(rec), onLoad, onError)
	default:
		container.Set("textContent", r.fallbackGlyph(rec))
		onError(errors.Errorf("unknown file type %q for emoji %s",
			rec.FileType, rec.ID))
	}
}

// Cleanup tears down the playback-engine instance associated with the
// container, discards any in-flight render for it, and empties the container.
// It is idempotent.
func (r *Renderer) Cleanup(container js.Value) {
	h := container.Call("getAttribute", handleAttr)
	if !h.IsNull() && h.String() != "" {
		r.mux.Lock()
		key := h.String()
		r.generations[key]++
		player := r.players[key]
		delete(r.players, key)
		r.mux.Unlock()

		player.Destroy()
	}

	container.Set("innerHTML", "")
}

// begin starts a new render generation for the handle and destroys the player
// left by the previous render of the same container.
func (r *Renderer) begin(h string) uint64 {
	r.mux.Lock()
	r.generations[h]++
	gen := r.generations[h]
	player := r.players[h]
	delete(r.players, h)
	r.mux.Unlock()

	player.Destroy()
	return gen
}

// current reports whether the generation is still the newest for the handle.
func (r *Renderer) current(h string, gen uint64) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.generations[h] == gen
}

// styleContainer applies the semantic class and base style, then the caller
// overrides.
func (r *Renderer) styleContainer(container js.Value, size int, opts Options) {
	class := ClassName
	if opts.ClassName != "" {
		class += " " + opts.ClassName
	}
	container.Set("className", class)

	style := fmt.Sprintf("display:inline-flex;align-items:center;"+
		"justify-content:center;width:%dpx;height:%dpx;", size, size)
	if opts.Style != "" {
		style += opts.Style
	}
	container.Call("setAttribute", "style", style)
}

// renderVector fetches, decompresses, and plays a TGS payload. On any failure
// it falls back to the record's thumbnail as a static image if one exists,
// and invokes onError regardless.
func (r *Renderer) renderVector(container js.Value, h string, gen uint64,
	rec *emoji.Record, opts Options, onLoad func(), onError func(error)) {
	data, err := r.fetchAsset(rec.FileURL)
	if err == nil {
		var raw []byte
		if raw, err = lottie.Decompress(data); err == nil {
			if !r.current(h, gen) {
				jww.DEBUG.Printf(
					"Discarding superseded render for emoji %s", rec.ID)
				onError(errors.Errorf(
					"render of emoji %s was superseded", rec.ID))
				return
			}

			var animation js.Value
			if animation, err = lottie.ParseAnimation(raw); err == nil {
				var player *lottie.Player
				player, err = lottie.NewPlayer(
					container, animation, opts.Animated, onLoad, onError)
				if err == nil {
					r.mux.Lock()
					r.players[h] = player
					r.mux.Unlock()
					return
				}
			}
		}
	}

	jww.ERROR.Printf("Vector render for emoji %s failed: %+v", rec.ID, err)

	if !r.current(h, gen) {
		// Superseded; leave the DOM to the newer render but still settle the
		// caller.
		onError(err)
		return
	}

	if rec.ThumbnailURL != "" {
		// The thumbnail's own load signal still reaches the caller, so this
		// path can signal both OnLoad and OnError.
		r.renderImage(container, rec.ThumbnailURL, r.altText(rec, opts),
			r.fallbackGlyph(rec), onLoad, onError)
	}
	onError(err)
}

// fetchAsset returns the raw bytes at the URL, consulting the asset store
// before the network and populating it afterward.
func (r *Renderer) fetchAsset(url string) ([]byte, error) {
	if r.assets != nil {
		if data, err := r.assets.Get(url); err == nil {
			return data, nil
		} else if !errors.Is(err, assetdb.ErrDoesNotExist) {
			jww.WARN.Printf("Asset store read for %s failed: %+v", url, err)
		}
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch asset %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf(
			"could not fetch asset %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read asset %s", url)
	}

	if r.assets != nil {
		if err = r.assets.Put(url, data); err != nil {
			jww.WARN.Printf("Asset store write for %s failed: %+v", url, err)
		}
	}

	return data, nil
}

// renderVideo builds a muted, looping, inline video element for the record.
func (r *Renderer) renderVideo(container js.Value, rec *emoji.Record,
	size int, opts Options, onLoad func(), onError func(error)) {
	video := utils.Document.Call("createElement", "video")
	video.Set("src", rec.FileURL)
	video.Set("autoplay", opts.Animated)
	video.Set("loop", true)
	video.Set("muted", true)
	video.Set("playsInline", true)
	video.Set("width", size)
	video.Set("height", size)

	listenOnce(video, "loadeddata", func() { onLoad() })
	listenOnce(video, "error", func() {
		onError(errors.Errorf("video for emoji %s failed to load", rec.ID))
	})

	container.Call("appendChild", video)
}

// renderImage builds an img element for the URL. On a load failure, the
// container's visible text is set to the glyph before onError fires.
func (r *Renderer) renderImage(container js.Value, url, alt, glyph string,
	onLoad func(), onError func(error)) {
	img := utils.Document.Call("createElement", "img")
	img.Set("src", url)
	img.Set("alt", alt)
	img.Call("setAttribute", "style",
		"width:100%;height:100%;object-fit:contain;")

	listenOnce(img, "load", func() { onLoad() })
	listenOnce(img, "error", func() {
		container.Set("textContent", glyph)
		onError(errors.Errorf("image %s failed to load", url))
	})

	container.Call("appendChild", img)
}

// fallbackGlyph picks the glyph shown when an asset cannot be rendered: the
// record's own unicode glyph when it carries one, else the configured
// fallback.
func (r *Renderer) fallbackGlyph(rec *emoji.Record) string {
	if rec != nil && rec.Emoji != "" {
		return rec.Emoji
	}
	return r.fallback
}

// altText picks the image alt text: the caller's override, then the record's
// short name, then the record's glyph or the configured fallback.
func (r *Renderer) altText(rec *emoji.Record, opts Options) string {
	if opts.Alt != "" {
		return opts.Alt
	}
	if rec.ShortName != "" {
		return rec.ShortName
	}
	return r.fallbackGlyph(rec)
}

// listenOnce attaches a handler for a single firing of the event and releases
// the bridging function afterward.
func listenOnce(target js.Value, event string, fn func()) {
	var jsFn js.Func
	jsFn = js.FuncOf(func(js.Value, []js.Value) any {
		defer jsFn.Release()
		fn()
		return nil
	})
	target.Call("addEventListener", event, jsFn,
		map[string]any{"once": true})
}

// callbacks returns nil-safe copies of the caller's callbacks.
func (o Options) callbacks() (onLoad func(), onError func(error)) {
	onLoad, onError = o.OnLoad, o.OnError
	if onLoad == nil {
		onLoad = func() {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	return onLoad, onError
}

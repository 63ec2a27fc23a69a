////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

// Package tmoji is the public entry point: it composes the cache, the proxy
// client, the format renderer, the lazy scheduler, and the placeholder
// parsers into the pack-loading and render operations exposed to the page.
package tmoji

import (
	"sort"
	"sync"
	"syscall/js"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/api"
	"github.com/CORBENDALLAS111/Tmoji-Web/assetdb"
	"github.com/CORBENDALLAS111/Tmoji-Web/cache"
	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
	"github.com/CORBENDALLAS111/Tmoji-Web/parse"
	"github.com/CORBENDALLAS111/Tmoji-Web/render"
	"github.com/CORBENDALLAS111/Tmoji-Web/storage"
	"github.com/CORBENDALLAS111/Tmoji-Web/utils"
)

// Tmoji renders Telegram custom emoji into the page it is loaded in. All
// record reads go through the two-tier cache; rendering goes through the
// format renderer, directly or via the lazy scheduler.
type Tmoji struct {
	cfg      Config
	cache    *cache.Cache
	client   *api.Client
	renderer *render.Renderer
	lazy     *render.LazyLoader

	// assets is the indexedDb payload store shared with the renderer. Nil when
	// the store could not be opened.
	assets *assetdb.AssetDB

	// packs indexes the loaded packs by name. names is the derived short-name
	// to ID lookup; it is advisory, rebuilt additively as packs load, and the
	// last pack loaded wins on a name collision.
	packs map[string]*emoji.Pack
	names map[string]string

	mux sync.Mutex
}

// New creates a Tmoji instance from the given configuration.
func New(cfg Config) *Tmoji {
	cfg = cfg.withDefaults()

	if err := storage.CheckAndStoreVersion(); err != nil {
		jww.WARN.Printf("Storage version check failed: %+v", err)
	}

	adb, err := assetdb.New()
	if err != nil {
		// Payload caching is an optimization; rendering works without it.
		jww.WARN.Printf("Asset store unavailable: %+v", err)
		adb = nil
	}

	renderer := render.New(cfg.DefaultSize, cfg.FallbackEmoji, adb)

	return &Tmoji{
		cfg:      cfg,
		cache:    cache.New(storage.GetLocalStorage(), cfg.cacheWindow(), cfg.CacheCapacity),
		client:   api.NewClient(cfg.BaseURL),
		renderer: renderer,
		lazy:     render.NewLazyLoader(renderer, cfg.LazyMargin),
		assets:   adb,
		packs:    make(map[string]*emoji.Pack),
		names:    make(map[string]string),
	}
}

// Config returns the effective configuration.
func (t *Tmoji) Config() Config { return t.cfg }

// SetBaseURL points the client at a different proxy backend.
func (t *Tmoji) SetBaseURL(baseURL string) { t.client.SetBaseURL(baseURL) }

// Ping probes the proxy backend health endpoint.
func (t *Tmoji) Ping() error { return t.client.Ping() }

// LoadPack loads an emoji pack by a t.me link or a raw pack name, consulting
// the cache first, and indexes it for name lookups.
func (t *Tmoji) LoadPack(urlOrName string) (*emoji.Pack, error) {
	name := parse.ExtractPackName(urlOrName)

	if p, exists := t.cache.GetPack(name); exists {
		t.index(p)
		return p, nil
	}

	p, err := t.client.GetPack(urlOrName)
	if err != nil {
		jww.ERROR.Printf("Loading pack %q failed: %+v", urlOrName, err)
		return nil, err
	}

	t.cache.SetPack(p)
	t.index(p)
	return p, nil
}

// LoadManifest fetches a pack manifest by pack ID without rendering anything,
// caching and indexing it like LoadPack.
func (t *Tmoji) LoadManifest(packID string) (*emoji.Pack, error) {
	if p, exists := t.cache.GetPack(packID); exists {
		t.index(p)
		return p, nil
	}

	p, err := t.client.GetManifest(packID)
	if err != nil {
		jww.ERROR.Printf("Loading manifest %q failed: %+v", packID, err)
		return nil, err
	}

	t.cache.SetPack(p)
	t.index(p)
	return p, nil
}

// GetEmoji returns the record for an emoji ID, consulting the cache first.
func (t *Tmoji) GetEmoji(id string) (*emoji.Record, error) {
	if rec, exists := t.cache.GetEmoji(id); exists {
		return rec, nil
	}

	rec, err := t.client.GetEmoji(id)
	if err != nil {
		return nil, err
	}

	t.cache.SetEmoji(rec)
	return rec, nil
}

// GetEmojis resolves many emoji IDs at once, fetching cache misses
// concurrently. The result holds only the successfully resolved subset.
func (t *Tmoji) GetEmojis(ids []string) map[string]*emoji.Record {
	result := make(map[string]*emoji.Record, len(ids))
	var missing []string

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if rec, exists := t.cache.GetEmoji(id); exists {
			result[id] = rec
		} else {
			missing = append(missing, id)
		}
	}

	for _, rec := range t.client.GetEmojis(missing) {
		t.cache.SetEmoji(rec)
		result[rec.ID] = rec
	}

	return result
}

// RenderTo renders the emoji with the given ID into the container and blocks
// until the render signals load or error. A record that cannot be resolved
// renders the fallback glyph and returns the lookup error.
func (t *Tmoji) RenderTo(
	container js.Value, id string, opts render.Options) error {
	rec, err := t.GetEmoji(id)
	if err != nil {
		container.Set("textContent", t.cfg.FallbackEmoji)
		return err
	}

	// The vector fallback path can signal twice; the buffer keeps the second
	// signal from blocking and the first one wins.
	done := make(chan error, 2)
	userLoad, userError := opts.OnLoad, opts.OnError
	opts.OnLoad = func() {
		if userLoad != nil {
			userLoad()
		}
		done <- nil
	}
	opts.OnError = func(err error) {
		if userError != nil {
			userError(err)
		}
		done <- err
	}

	t.renderer.Render(container, rec, opts)
	return <-done
}

// LazyRender defers rendering the emoji until the container approaches the
// viewport. Unlike RenderTo, a record that cannot be resolved degrades to a
// silent fallback glyph instead of an error.
func (t *Tmoji) LazyRender(container js.Value, id string, opts render.Options) {
	rec, err := t.GetEmoji(id)
	if err != nil {
		jww.INFO.Printf("Lazy render falling back for emoji %s: %+v", id, err)
		container.Set("textContent", t.cfg.FallbackEmoji)
		return
	}

	t.lazy.Observe(container, rec, opts)
}

// RenderText renders a text string into the container, replacing well-formed
// {emoji:<id>} placeholders and :name: short names (resolved through the
// loaded-pack index) with lazily rendered emoji. Returns the number of emoji
// placeholders rendered.
func (t *Tmoji) RenderText(
	container js.Value, text string, opts render.Options) int {
	tokens := t.resolveTokens(text)

	var ids []string
	for _, tok := range tokens {
		if tok.Kind == parse.Emoji {
			ids = append(ids, tok.EmojiID)
		}
	}
	records := t.GetEmojis(ids)

	container.Set("innerHTML", "")
	rendered := 0
	for _, tok := range tokens {
		if tok.Kind == parse.Text {
			node := utils.Document.Call("createTextNode", tok.Content)
			container.Call("appendChild", node)
			continue
		}

		span := utils.Document.Call("createElement", "span")
		container.Call("appendChild", span)

		if rec, exists := records[tok.EmojiID]; exists {
			t.lazy.Observe(span, rec, opts)
			rendered++
		} else {
			span.Set("textContent", t.cfg.FallbackEmoji)
		}
	}

	return rendered
}

// RenderMarkup renders a markup string into the container and lazily renders
// the <tmoji id="..."> and emoji-id="..." placeholders it carries. Attribute
// values must be double quoted, matching the markup data contract. Returns
// the number of placeholders rendered.
func (t *Tmoji) RenderMarkup(
	container js.Value, markup string, opts render.Options) int {
	placeholders := 0
	for _, tok := range parse.ParseMarkup(markup) {
		if tok.Kind == parse.Emoji {
			placeholders++
		}
	}

	container.Set("innerHTML", markup)
	if placeholders == 0 {
		// No placeholders means no record lookups and no subtree scan.
		return 0
	}

	return t.ParseAll(container, opts)
}

// ParseAll scans the given root node for markup placeholders, <tmoji id=...>
// elements and elements with an emoji-id attribute, and lazily renders each
// in place. A null root scans the whole document. Returns the number of
// placeholders found.
func (t *Tmoji) ParseAll(root js.Value, opts render.Options) int {
	if root.IsUndefined() || root.IsNull() {
		root = utils.Document
	}

	found := root.Call("querySelectorAll", "tmoji[id], [emoji-id]")

	type placeholder struct {
		el js.Value
		id string
	}
	var placeholders []placeholder
	var ids []string

	for i := 0; i < found.Length(); i++ {
		el := found.Index(i)
		id := el.Call("getAttribute", "emoji-id")
		if id.IsNull() {
			id = el.Call("getAttribute", "id")
		}
		if id.IsNull() || id.String() == "" {
			continue
		}
		placeholders = append(placeholders, placeholder{el, id.String()})
		ids = append(ids, id.String())
	}

	records := t.GetEmojis(ids)
	for _, ph := range placeholders {
		if rec, exists := records[ph.id]; exists {
			t.lazy.Observe(ph.el, rec, opts)
		} else {
			ph.el.Set("textContent", t.cfg.FallbackEmoji)
		}
	}

	return len(placeholders)
}

// LoadAll force-renders every lazily registered container.
func (t *Tmoji) LoadAll() { t.lazy.LoadAll() }

// Cleanup tears down whatever is rendered in the container.
func (t *Tmoji) Cleanup(container js.Value) { t.renderer.Cleanup(container) }

// GetByName resolves a short name to an emoji ID through the loaded-pack
// index.
func (t *Tmoji) GetByName(name string) (string, bool) {
	t.mux.Lock()
	defer t.mux.Unlock()
	id, exists := t.names[name]
	return id, exists
}

// GetLoadedPacks returns the names of the loaded packs, sorted.
func (t *Tmoji) GetLoadedPacks() []string {
	t.mux.Lock()
	defer t.mux.Unlock()

	names := make([]string, 0, len(t.packs))
	for name := range t.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearCache empties both cache tiers, the asset store, and the pack and
// name indexes.
func (t *Tmoji) ClearCache() {
	t.cache.Clear()

	if t.assets != nil {
		if err := t.assets.Clear(); err != nil {
			jww.WARN.Printf("Clearing asset store failed: %+v", err)
		}
	}

	t.mux.Lock()
	t.packs = make(map[string]*emoji.Pack)
	t.names = make(map[string]string)
	t.mux.Unlock()
}

// Destroy disconnects the lazy scheduler. The instance must not be used
// afterward.
func (t *Tmoji) Destroy() { t.lazy.Destroy() }

// index records a loaded pack and extends the short-name lookup. The lookup
// is additive and never pruned while the instance lives; ClearCache resets
// it.
func (t *Tmoji) index(p *emoji.Pack) {
	t.mux.Lock()
	defer t.mux.Unlock()

	t.packs[p.Name] = p
	for _, rec := range p.Stickers {
		if rec.ShortName != "" {
			t.names[rec.ShortName] = rec.ID
		}
	}
}

// resolveTokens tokenizes the plain-text placeholder syntax and then resolves
// colon short names inside the remaining text runs.
func (t *Tmoji) resolveTokens(text string) []parse.Token {
	names := t.namesSnapshot()

	var tokens []parse.Token
	for _, tok := range parse.ParseText(text) {
		if tok.Kind == parse.Emoji {
			tokens = append(tokens, tok)
			continue
		}
		tokens = append(tokens, parse.ParseColons(tok.Content, names)...)
	}
	return tokens
}

// namesSnapshot copies the name index for use outside the lock.
func (t *Tmoji) namesSnapshot() map[string]string {
	t.mux.Lock()
	defer t.mux.Unlock()

	names := make(map[string]string, len(t.names))
	for name, id := range t.names {
		names[name] = id
	}
	return names
}

////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package render

import (
	"sync"
	"syscall/js"

	"github.com/hack-pad/safejs"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
)

const (
	// DefaultMargin is the visibility margin around the viewport at which a
	// container is considered about to be visible.
	DefaultMargin = "50px"

	// intersectionThreshold is the fraction of the container that must be
	// visible to trigger a render.
	intersectionThreshold = 0.1
)

// lazyEntry is the per-container registration state.
type lazyEntry struct {
	container js.Value
	record    *emoji.Record
	opts      Options
	loaded    bool
}

// LazyLoader defers rendering until a container approaches the viewport.
// Without visibility observation in the host environment it degrades to
// registration only; LoadAll still force-renders everything registered.
type LazyLoader struct {
	renderer *Renderer

	// observer is the IntersectionObserver instance, or the undefined value
	// when the host has no visibility-observation capability.
	observer js.Value
	callback js.Func

	entries map[string]*lazyEntry
	mux     sync.Mutex
}

// NewLazyLoader creates a LazyLoader over the renderer with the given
// visibility margin (empty selects the default).
func NewLazyLoader(renderer *Renderer, margin string) *LazyLoader {
	if margin == "" {
		margin = DefaultMargin
	}

	l := &LazyLoader{
		renderer: renderer,
		observer: js.Undefined(),
		entries:  make(map[string]*lazyEntry),
	}

	ctor, err := safejs.Global().Get("IntersectionObserver")
	if err != nil || safejs.Unsafe(ctor).IsUndefined() {
		jww.WARN.Printf("IntersectionObserver unavailable; lazy rendering " +
			"degrades to explicit loads only")
		return l
	}

	l.callback = js.FuncOf(l.onIntersect)
	l.observer = safejs.Unsafe(ctor).New(l.callback, map[string]any{
		"rootMargin": margin,
		"threshold":  intersectionThreshold,
	})

	return l
}

// Observe registers the container for deferred rendering. When visibility
// observation is unavailable, the registration is kept but nothing triggers
// automatically.
func (l *LazyLoader) Observe(
	container js.Value, rec *emoji.Record, opts Options) {
	h := l.renderer.Handle(container)

	l.mux.Lock()
	l.entries[h] = &lazyEntry{container: container, record: rec, opts: opts}
	l.mux.Unlock()

	if !l.observer.IsUndefined() {
		l.observer.Call("observe", container)
	}
}

// LoadAll force-renders every registered entry that has not loaded yet,
// regardless of visibility.
func (l *LazyLoader) LoadAll() {
	l.mux.Lock()
	var pending []string
	for h, e := range l.entries {
		if !e.loaded {
			pending = append(pending, h)
		}
	}
	l.mux.Unlock()

	for _, h := range pending {
		l.trigger(h)
	}
}

// Destroy disconnects observation and discards all registrations.
func (l *LazyLoader) Destroy() {
	if !l.observer.IsUndefined() {
		l.observer.Call("disconnect")
		l.callback.Release()
		l.observer = js.Undefined()
	}

	l.mux.Lock()
	l.entries = make(map[string]*lazyEntry)
	l.mux.Unlock()
}

// onIntersect handles IntersectionObserver callbacks.
func (l *LazyLoader) onIntersect(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}

	observed := args[0]
	for i := 0; i < observed.Length(); i++ {
		e := observed.Index(i)
		if !e.Get("isIntersecting").Bool() {
			continue
		}

		h := e.Get("target").Call("getAttribute", handleAttr)
		if !h.IsNull() && h.String() != "" {
			l.trigger(h.String())
		}
	}

	return nil
}

// trigger renders the entry for the handle if it has not loaded yet, applying
// a transient placeholder style that is cleared before the caller's callbacks
// are forwarded.
func (l *LazyLoader) trigger(h string) {
	l.mux.Lock()
	e, exists := l.entries[h]
	if !exists || e.loaded {
		l.mux.Unlock()
		return
	}
	e.loaded = true
	l.mux.Unlock()

	// signaled stops the placeholder from being applied when the render
	// resolves synchronously.
	var signaled bool

	opts := e.opts
	userLoad, userError := e.opts.callbacks()
	opts.OnLoad = func() {
		signaled = true
		clearPlaceholder(e.container)
		userLoad()
	}
	opts.OnError = func(err error) {
		signaled = true
		clearPlaceholder(e.container)
		userError(err)
	}

	l.renderer.Render(e.container, e.record, opts)
	if !signaled {
		applyPlaceholder(e.container)
	}

	if !l.observer.IsUndefined() {
		l.observer.Call("unobserve", e.container)
	}
}

// applyPlaceholder marks a container as loading with a subtle background and
// rounded corners.
func applyPlaceholder(container js.Value) {
	style := container.Get("style")
	style.Call("setProperty", "background-color", "rgba(0,0,0,0.06)")
	style.Call("setProperty", "border-radius", "25%")
}

// clearPlaceholder removes the loading style.
func clearPlaceholder(container js.Value) {
	style := container.Get("style")
	style.Call("removeProperty", "background-color")
	style.Call("removeProperty", "border-radius")
}

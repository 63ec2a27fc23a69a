////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package lottie

import (
	"syscall/js"

	"github.com/hack-pad/safejs"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// Signal names emitted by the playback engine.
const (
	loadedEvent = "DOMLoaded"
	failedEvent = "data_failed"
)

// Player owns one playback-engine instance bound to a container. The zero
// Player is valid; every method is a no-op until an instance is attached, and
// Destroy is idempotent.
type Player struct {
	anim js.Value
}

// engine returns the playback engine global or an error when the page did not
// load one.
func engine() (js.Value, error) {
	v, err := safejs.Global().Get("lottie")
	if err != nil {
		return js.Undefined(), errors.Wrap(err, "playback engine lookup failed")
	}

	e := safejs.Unsafe(v)
	if e.IsUndefined() || e.IsNull() {
		return js.Undefined(),
			errors.New("playback engine is not loaded on this page")
	}
	return e, nil
}

// NewPlayer instantiates a playback-engine instance for the given animation
// object inside the container. onLoad is invoked once the engine has built
// the DOM for the animation; onError is invoked if the engine rejects the
// animation data. Exactly one of the two fires per instance.
func NewPlayer(container, animationData js.Value, autoplay bool,
	onLoad func(), onError func(error)) (*Player, error) {
	e, err := engine()
	if err != nil {
		return nil, err
	}

	p := &Player{anim: loadAnimation(e, container, animationData, autoplay)}
	if p.anim.IsUndefined() || p.anim.IsNull() {
		return nil, errors.New("playback engine returned no instance")
	}

	var loadedFn, failedFn js.Func
	loadedFn = js.FuncOf(func(js.Value, []js.Value) any {
		defer loadedFn.Release()
		onLoad()
		return nil
	})
	failedFn = js.FuncOf(func(js.Value, []js.Value) any {
		defer failedFn.Release()
		onError(errors.New("playback engine rejected the animation data"))
		return nil
	})
	p.anim.Call("addEventListener", loadedEvent, loadedFn)
	p.anim.Call("addEventListener", failedEvent, failedFn)

	return p, nil
}

// loadAnimation calls the engine constructor, recovering a thrown exception
// into an undefined instance.
func loadAnimation(
	e, container, animationData js.Value, autoplay bool) (anim js.Value) {
	defer func() {
		if r := recover(); r != nil {
			jww.ERROR.Printf("Playback engine threw on instantiation: %+v", r)
			anim = js.Undefined()
		}
	}()

	return e.Call("loadAnimation", map[string]any{
		"container":     container,
		"renderMode":    "vector",
		"loop":          true,
		"autoplay":      autoplay,
		"animationData": animationData,
		"rendererSettings": map[string]any{
			"preserveAspectRatio": "xMidYMid meet",
		},
	})
}

// Play starts playback. No-op without an instance.
func (p *Player) Play() { p.call("play") }

// Pause pauses playback. No-op without an instance.
func (p *Player) Pause() { p.call("pause") }

// Stop stops playback and rewinds. No-op without an instance.
func (p *Player) Stop() { p.call("stop") }

// Resize recomputes the animation layout after the container size changed.
// No-op without an instance.
func (p *Player) Resize() { p.call("resize") }

// GoToFrame moves playback to frame n and holds there. No-op without an
// instance.
func (p *Player) GoToFrame(n int) { p.call("goToAndStop", n, true) }

// Destroy tears down the engine instance and its DOM. It is idempotent and
// must be called before the container is reused for a different emoji.
func (p *Player) Destroy() {
	if p == nil {
		return
	}
	p.call("destroy")
	p.anim = js.Value{}
}

// call invokes a method on the engine instance, doing nothing if no instance
// exists. A thrown exception is logged, never propagated.
func (p *Player) call(method string, args ...any) {
	if p == nil || p.anim.IsUndefined() || p.anim.IsNull() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			jww.WARN.Printf("Playback engine %s threw: %+v", method, r)
		}
	}()

	p.anim.Call(method, args...)
}

////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/CORBENDALLAS111/Tmoji-Web/render"
	"github.com/CORBENDALLAS111/Tmoji-Web/tmoji"
)

// optionsFromJS reads the render options object at args[index], falling back
// to the configuration defaults when the object or a field is absent.
//
// Recognised fields:
//   - size      - Rendered size in pixels (int).
//   - animated  - Start playback immediately (bool).
//   - className - Extra classes appended after the semantic class (string).
//   - style     - Extra inline CSS appended after the base style (string).
//   - alt       - Image alt text override (string).
//   - onLoad    - Invoked once the container has been populated (function).
//   - onError   - Invoked with the failure message instead (function).
func optionsFromJS(args []js.Value, index int, cfg tmoji.Config) render.Options {
	opts := render.Options{
		Size:     cfg.DefaultSize,
		Animated: cfg.Animated,
	}

	if len(args) <= index {
		return opts
	}
	obj := args[index]
	if obj.IsUndefined() || obj.IsNull() {
		return opts
	}

	if v := obj.Get("size"); v.Type() == js.TypeNumber {
		opts.Size = v.Int()
	}
	if v := obj.Get("animated"); v.Type() == js.TypeBoolean {
		opts.Animated = v.Bool()
	}
	if v := obj.Get("className"); v.Type() == js.TypeString {
		opts.ClassName = v.String()
	}
	if v := obj.Get("style"); v.Type() == js.TypeString {
		opts.Style = v.String()
	}
	if v := obj.Get("alt"); v.Type() == js.TypeString {
		opts.Alt = v.String()
	}

	if cb := obj.Get("onLoad"); cb.Type() == js.TypeFunction {
		opts.OnLoad = func() { cb.Invoke() }
	}
	if cb := obj.Get("onError"); cb.Type() == js.TypeFunction {
		opts.OnError = func(err error) { cb.Invoke(err.Error()) }
	}

	return opts
}

////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

// Package lottie adapts compressed TGS vector-animation payloads for the
// lottie playback engine loaded on the page: it decompresses the gzip
// payload, parses the animation JSON, and owns the lifecycle of the player
// instances it creates.
package lottie

import (
	"bytes"
	"compress/gzip"
	"io"
	"syscall/js"

	"github.com/hack-pad/safejs"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/utils"
)

// TGS payloads are gzip streams; the two-byte magic number is checked before
// any decompression is attempted.
const (
	gzipMagic0 = 0x1f
	gzipMagic1 = 0x8b
)

// IsGzipped reports whether the buffer starts with the gzip magic number. It
// inspects the prefix only and does not attempt decompression.
func IsGzipped(data []byte) bool {
	return len(data) >= 2 && data[0] == gzipMagic0 && data[1] == gzipMagic1
}

// Decompress inflates a gzip-compressed TGS payload. When the browser
// provides DecompressionStream, the native streaming decompressor is used;
// otherwise the payload is inflated in memory.
func Decompress(data []byte) ([]byte, error) {
	if !IsGzipped(data) {
		return nil, errors.New("payload is not gzip compressed: bad magic number")
	}

	if ds := decompressionStream(); !ds.IsUndefined() {
		out, err := decompressNative(ds, data)
		if err == nil {
			return out, nil
		}
		jww.WARN.Printf(
			"Native decompression failed, inflating in memory: %+v", err)
	}

	return decompressInMemory(data)
}

// decompressionStream returns the DecompressionStream constructor or the
// undefined value when the browser does not provide one.
func decompressionStream() js.Value {
	ds, err := safejs.Global().Get("DecompressionStream")
	if err != nil {
		return js.Undefined()
	}
	return safejs.Unsafe(ds)
}

// decompressNative pipes the payload through the browser's streaming gzip
// decompressor and collects the output.
func decompressNative(ds js.Value, data []byte) ([]byte, error) {
	blob := js.Global().Get("Blob").New([]any{utils.CopyBytesToJS(data)})
	stream := blob.Call("stream").Call("pipeThrough", ds.New("gzip"))
	response := js.Global().Get("Response").New(stream)

	result, awaitErr := utils.Await(response.Call("arrayBuffer"))
	if awaitErr != nil {
		return nil, errors.Errorf("decompression stream rejected: %s",
			utils.JsToJson(awaitErr[0]))
	}

	return utils.CopyBytesToGo(utils.Uint8Array.New(result[0])), nil
}

// decompressInMemory inflates the payload with the in-process gzip reader.
func decompressInMemory(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "could not decompress animation payload")
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not decompress animation payload")
	}
	return out, nil
}

// ParseAnimation decodes a decompressed animation payload into a Javascript
// object for the playback engine. A parse failure here is distinct from a
// decompression failure.
func ParseAnimation(data []byte) (obj js.Value, err error) {
	// JSON.parse throws on malformed input, which surfaces in Go as a panic
	// on the call.
	defer func() {
		if r := recover(); r != nil {
			obj = js.Undefined()
			err = errors.Errorf("animation JSON is malformed: %+v", r)
		}
	}()

	return utils.JSON.Call("parse", string(data)), nil
}

////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package utils

import (
	"bytes"
	"testing"
)

// Tests that bytes round-trip through a Javascript Uint8Array.
func TestCopyBytesToJS_CopyBytesToGo(t *testing.T) {
	expected := []byte{0, 1, 127, 128, 255, 42}

	received := CopyBytesToGo(CopyBytesToJS(expected))

	if !bytes.Equal(expected, received) {
		t.Errorf("Bytes do not round-trip.\nexpected: %v\nreceived: %v",
			expected, received)
	}
}

// Tests that a JSON object round-trips through a Javascript object.
func TestJsonToJS_JsToJson(t *testing.T) {
	expected := `{"id":"5100","width":100}`

	obj, err := JsonToJS([]byte(expected))
	if err != nil {
		t.Fatalf("JsonToJS failed: %+v", err)
	}

	if obj.Get("id").String() != "5100" || obj.Get("width").Int() != 100 {
		t.Errorf("Unexpected object fields: %s", JsToJson(obj))
	}
}

// Tests that malformed JSON produces an error.
func TestJsonToJS_Malformed(t *testing.T) {
	if _, err := JsonToJS([]byte("{not json")); err == nil {
		t.Error("Malformed JSON did not produce an error.")
	}
}

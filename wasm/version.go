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

	"github.com/CORBENDALLAS111/Tmoji-Web/storage"
)

// GetVersion returns the current version of the storage layout.
//
// Returns:
//   - Version (string).
func GetVersion(js.Value, []js.Value) any {
	return storage.SEMVER
}

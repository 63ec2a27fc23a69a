////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package storage

import (
	"os"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// SEMVER is the current semantic version of TMoji Web.
const SEMVER = "1.1.0"

// semverKey is the storage key under which the version of the binary that
// last wrote to storage is kept.
const semverKey = "tmojiSemanticVersion"

// CheckAndStoreVersion compares the stored TMoji version against the current
// one and stores the current version. On a mismatch, all storage written by
// this binary is dropped so that a newer binary never reads a stale schema.
//
// On first load, the version is stored and nothing is cleared.
func CheckAndStoreVersion() error {
	return checkAndStoreVersion(SEMVER, GetLocalStorage())
}

func checkAndStoreVersion(currentVer string, ls *LocalStorage) error {
	storedVer, err := ls.GetItem(semverKey)
	if errors.Is(err, os.ErrNotExist) {
		jww.INFO.Printf("First load; storing TMoji version v%s", currentVer)
		return ls.SetItem(semverKey, []byte(currentVer))
	} else if err != nil {
		return errors.Wrap(err, "could not load stored version")
	}

	if string(storedVer) != currentVer {
		jww.INFO.Printf("TMoji storage out of date; clearing: v%s -> v%s",
			storedVer, currentVer)
		ls.ClearWASM()
		return ls.SetItem(semverKey, []byte(currentVer))
	}

	jww.INFO.Printf("TMoji version is current: v%s", storedVer)
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package storage

import (
	"bytes"
	"testing"
)

// Tests that the first call to checkAndStoreVersion stores the current version
// without clearing anything.
func Test_checkAndStoreVersion_FirstLoad(t *testing.T) {
	ls := newLocalStorage("versionTestFirst/")
	ls.ClearWASM()

	if err := ls.SetItem("survivor", []byte("data")); err != nil {
		t.Fatalf("Failed to store key: %+v", err)
	}

	if err := checkAndStoreVersion("1.0.0", ls); err != nil {
		t.Fatalf("checkAndStoreVersion failed: %+v", err)
	}

	storedVer, err := ls.GetItem(semverKey)
	if err != nil {
		t.Fatalf("Version was not stored: %+v", err)
	}
	if !bytes.Equal(storedVer, []byte("1.0.0")) {
		t.Errorf("Unexpected stored version.\nexpected: %q\nreceived: %q",
			"1.0.0", storedVer)
	}

	if _, err = ls.GetItem("survivor"); err != nil {
		t.Errorf("First load cleared existing keys: %+v", err)
	}
}

// Tests that a version match leaves storage untouched.
func Test_checkAndStoreVersion_Match(t *testing.T) {
	ls := newLocalStorage("versionTestMatch/")
	ls.ClearWASM()

	if err := checkAndStoreVersion("1.0.0", ls); err != nil {
		t.Fatalf("checkAndStoreVersion failed: %+v", err)
	}
	if err := ls.SetItem("survivor", []byte("data")); err != nil {
		t.Fatalf("Failed to store key: %+v", err)
	}

	if err := checkAndStoreVersion("1.0.0", ls); err != nil {
		t.Fatalf("checkAndStoreVersion failed on match: %+v", err)
	}

	if _, err := ls.GetItem("survivor"); err != nil {
		t.Errorf("Version match cleared storage: %+v", err)
	}
}

// Tests that a version mismatch clears storage and stores the new version.
func Test_checkAndStoreVersion_Mismatch(t *testing.T) {
	ls := newLocalStorage("versionTestMismatch/")
	ls.ClearWASM()

	if err := checkAndStoreVersion("1.0.0", ls); err != nil {
		t.Fatalf("checkAndStoreVersion failed: %+v", err)
	}
	if err := ls.SetItem("doomed", []byte("data")); err != nil {
		t.Fatalf("Failed to store key: %+v", err)
	}

	if err := checkAndStoreVersion("2.0.0", ls); err != nil {
		t.Fatalf("checkAndStoreVersion failed on mismatch: %+v", err)
	}

	if _, err := ls.GetItem("doomed"); err == nil {
		t.Error("Version mismatch did not clear storage.")
	}

	storedVer, err := ls.GetItem(semverKey)
	if err != nil {
		t.Fatalf("New version was not stored: %+v", err)
	}
	if !bytes.Equal(storedVer, []byte("2.0.0")) {
		t.Errorf("Unexpected stored version.\nexpected: %q\nreceived: %q",
			"2.0.0", storedVer)
	}
}

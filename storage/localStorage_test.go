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
	"math/rand"
	"os"
	"strconv"
	"testing"

	"github.com/pkg/errors"
)

// Tests that a value set with LocalStorage.SetItem and retrieved with
// LocalStorage.GetItem matches the original.
func TestLocalStorage_GetItem_SetItem(t *testing.T) {
	values := map[string][]byte{
		"key1": []byte("key value"),
		"key2": {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		"key3": {0, 49, 0, 0, 0, 38, 249, 93, 242, 189, 222, 32, 138, 248, 121,
			151, 42, 108, 82, 199, 163, 61, 4, 200, 140, 231, 225, 20, 35, 243,
			253, 161, 61, 2, 227, 208, 173, 183, 33, 66, 236, 107, 105, 119, 26,
			42, 44, 60, 109, 172, 38, 47, 220, 17, 129, 4, 234, 241, 141, 81,
			84, 185, 32, 120, 115, 151, 128, 196, 143, 117, 222, 78, 44, 115,
			109, 20, 249, 46, 158, 139, 231, 157, 54, 219, 141, 252},
	}

	for keyName, keyValue := range values {
		if err := jsStorage.SetItem(keyName, keyValue); err != nil {
			t.Errorf("Failed to store %q: %+v", keyName, err)
		}

		loadedValue, err := jsStorage.GetItem(keyName)
		if err != nil {
			t.Errorf("Failed to load %q: %+v", keyName, err)
		}

		if !bytes.Equal(keyValue, loadedValue) {
			t.Errorf("Loaded value does not match original for %q"+
				"\nexpected: %q\nreceived: %q", keyName, keyValue, loadedValue)
		}
	}
}

// Tests that LocalStorage.GetItem returns the error os.ErrNotExist when the key
// does not exist in storage.
func TestLocalStorage_GetItem_NotExistError(t *testing.T) {
	_, err := jsStorage.GetItem("someKey")
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Incorrect error for non existant key."+
			"\nexpected: %v\nreceived: %v", os.ErrNotExist, err)
	}
}

// Tests that LocalStorage.RemoveItem deletes a key from store and that it
// cannot be retrieved.
func TestLocalStorage_RemoveItem(t *testing.T) {
	keyName := "key"
	if err := jsStorage.SetItem(keyName, []byte("value")); err != nil {
		t.Errorf("Failed to store %q: %+v", keyName, err)
	}
	jsStorage.RemoveItem(keyName)

	_, err := jsStorage.GetItem(keyName)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Failed to remove %q: %+v", keyName, err)
	}
}

// Tests that LocalStorage.Clear deletes all keys from storage.
func TestLocalStorage_Clear(t *testing.T) {
	for i := 0; i < 10; i++ {
		err := jsStorage.SetItem(strconv.Itoa(i), []byte(strconv.Itoa(i)))
		if err != nil {
			t.Errorf("Failed to store key %d: %+v", i, err)
		}
	}

	jsStorage.Clear()

	l := jsStorage.Length()

	if l > 0 {
		t.Errorf("Clear did not delete all keys. Found %d keys.", l)
	}
}

// Tests that LocalStorage.ClearPrefix deletes only the keys with the given
// prefix.
func TestLocalStorage_ClearPrefix(t *testing.T) {
	jsStorage.clear()
	prng := rand.New(rand.NewSource(11))
	var yesPrefix, noPrefix []string
	prefix := "keyNamePrefix/"

	for i := 0; i < 10; i++ {
		keyName := "keyNum" + strconv.Itoa(i)
		if prng.Intn(2) == 0 {
			keyName = prefix + keyName
			yesPrefix = append(yesPrefix, keyName)
		} else {
			noPrefix = append(noPrefix, keyName)
		}

		if err := jsStorage.SetItem(keyName, []byte(keyName)); err != nil {
			t.Errorf("Failed to store %q: %+v", keyName, err)
		}
	}

	jsStorage.ClearPrefix(prefix)

	for _, keyName := range noPrefix {
		if _, err := jsStorage.GetItem(keyName); err != nil {
			t.Errorf("Key %q without prefix was cleared: %+v", keyName, err)
		}
	}

	for _, keyName := range yesPrefix {
		if _, err := jsStorage.GetItem(keyName); err == nil {
			t.Errorf("Key %q with prefix was not cleared.", keyName)
		}
	}
}

// Tests that LocalStorage.ClearWASM deletes only keys written through this
// binary's prefix, leaving foreign keys in place.
func TestLocalStorage_ClearWASM(t *testing.T) {
	jsStorage.clear()

	if err := jsStorage.SetItem("ownKey", []byte("value")); err != nil {
		t.Errorf("Failed to store own key: %+v", err)
	}
	jsStorage.v.Call("setItem", "foreignKey", "foreign value")

	jsStorage.ClearWASM()

	if _, err := jsStorage.GetItem("ownKey"); err == nil {
		t.Error("Own key survived ClearWASM.")
	}
	if v := jsStorage.v.Call("getItem", "foreignKey"); v.IsNull() {
		t.Error("Foreign key was deleted by ClearWASM.")
	}

	jsStorage.clear()
}

////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

// Package assetdb is an IndexedDb-backed byte store for downloaded emoji
// asset files, keyed by source URL. Animation payloads are large enough that
// re-fetching them on every render is wasteful, so the renderer consults this
// store before going to the network.
package assetdb

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/hack-pad/go-indexeddb/idb"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"syscall/js"
)

const (
	// databaseName is the name of the IndexedDb database holding the assets.
	databaseName = "tmoji_assets"

	// currentVersion is the current version of the IndexedDb runtime. Used
	// for migration purposes.
	currentVersion uint = 1

	// assetStoreName is the single object store, mapping asset URL to the
	// base64-encoded file contents.
	assetStoreName = "assets"

	// dbTimeout is the timeout applied to every IndexedDb operation.
	dbTimeout = 3 * time.Second
)

// ErrDoesNotExist is returned by Get when the URL has no stored asset.
var ErrDoesNotExist = errors.New("no asset stored for URL")

// AssetDB is a handle to the opened asset database.
type AssetDB struct {
	db *idb.Database
}

// newContext builds a context for IndexedDb operations.
func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// New opens the asset database, creating or upgrading it as needed.
func New() (*AssetDB, error) {
	ctx, cancel := newContext()
	defer cancel()

	openRequest, err := idb.Global().Open(ctx, databaseName, currentVersion,
		func(db *idb.Database, oldVersion, newVersion uint) error {
			if oldVersion == newVersion {
				jww.INFO.Printf("IndexedDb version is current: v%d", newVersion)
				return nil
			}

			jww.INFO.Printf("IndexedDb upgrade required: v%d -> v%d",
				oldVersion, newVersion)

			if oldVersion == 0 && newVersion >= 1 {
				_, err := db.CreateObjectStore(
					assetStoreName, idb.ObjectStoreOptions{})
				if err != nil {
					return err
				}
			}

			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "could not open asset database")
	}

	db, err := openRequest.Await(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not open asset database")
	}

	return &AssetDB{db: db}, nil
}

// Get returns the stored asset bytes for the given URL. Returns
// ErrDoesNotExist when nothing is stored for the URL.
func (a *AssetDB) Get(url string) ([]byte, error) {
	store, err := a.objectStore(idb.TransactionReadOnly)
	if err != nil {
		return nil, err
	}

	getRequest, err := store.Get(js.ValueOf(url))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to Get asset %s", url)
	}

	result, err := await(getRequest)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to Get asset %s", url)
	} else if result.IsUndefined() {
		return nil, ErrDoesNotExist
	}

	data, err := base64.StdEncoding.DecodeString(result.String())
	if err != nil {
		return nil, errors.Wrapf(err, "asset for %s is corrupt", url)
	}

	jww.DEBUG.Printf("Loaded %d-byte asset for %s from IndexedDb",
		len(data), url)
	return data, nil
}

// Put stores the asset bytes for the given URL, replacing any previous value.
func (a *AssetDB) Put(url string, data []byte) error {
	store, err := a.objectStore(idb.TransactionReadWrite)
	if err != nil {
		return err
	}

	encoded := js.ValueOf(base64.StdEncoding.EncodeToString(data))
	putRequest, err := store.PutKey(js.ValueOf(url), encoded)
	if err != nil {
		return errors.Wrapf(err, "unable to Put asset %s", url)
	}

	if _, err = await(putRequest); err != nil {
		return errors.Wrapf(err, "unable to Put asset %s", url)
	}

	jww.DEBUG.Printf("Stored %d-byte asset for %s in IndexedDb",
		len(data), url)
	return nil
}

// Delete removes the stored asset for the given URL, if any.
func (a *AssetDB) Delete(url string) error {
	store, err := a.objectStore(idb.TransactionReadWrite)
	if err != nil {
		return err
	}

	deleteRequest, err := store.Delete(js.ValueOf(url))
	if err != nil {
		return errors.Wrapf(err, "unable to Delete asset %s", url)
	}

	if _, err = await(deleteRequest.Request); err != nil {
		return errors.Wrapf(err, "unable to Delete asset %s", url)
	}
	return nil
}

// Clear drops every stored asset.
func (a *AssetDB) Clear() error {
	store, err := a.objectStore(idb.TransactionReadWrite)
	if err != nil {
		return err
	}

	clearRequest, err := store.Clear()
	if err != nil {
		return errors.Wrap(err, "unable to Clear assets")
	}

	if _, err = await(clearRequest.Request); err != nil {
		return errors.Wrap(err, "unable to Clear assets")
	}
	return nil
}

// objectStore opens a transaction of the given mode on the asset store.
func (a *AssetDB) objectStore(mode idb.TransactionMode) (*idb.ObjectStore, error) {
	txn, err := a.db.Transaction(mode, assetStoreName)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create Transaction")
	}

	store, err := txn.ObjectStore(assetStoreName)
	if err != nil {
		return nil, errors.Wrap(err, "unable to get ObjectStore")
	}
	return store, nil
}

// await wraps request.Await with the package timeout.
func await(request *idb.Request) (js.Value, error) {
	ctx, cancel := newContext()
	defer cancel()

	result, err := request.Await(ctx)
	if err != nil {
		return js.Undefined(), err
	} else if ctx.Err() != nil {
		return js.Undefined(), ctx.Err()
	}
	return result, nil
}

package zinc

import "github.com/zinc-lang/zinc/internal/zinc/storage"

// Address and Keeper are the public storage-backend surface,
// re-exported so callers can implement their own Keeper without
// importing internal/zinc.
type (
	Address = storage.Address
	Keeper  = storage.Keeper
)

// DummyKeeper is the in-memory Keeper suitable for tests and local
// witness runs.
type DummyKeeper = storage.DummyKeeper

// NewDummyKeeper constructs a fresh DummyKeeper.
func NewDummyKeeper() *DummyKeeper { return storage.NewDummyKeeper() }

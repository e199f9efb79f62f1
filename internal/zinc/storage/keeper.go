package storage

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
	"github.com/zinc-lang/zinc/internal/zinc/value"
)

// Address identifies one contract instance's storage slot, keyed by
// its owning private key's derived public commitment.
type Address [32]byte

// Keeper is the storage backend contracts read and write through —
// modeled as an interface with a DummyKeeper default so the engine
// never depends on a concrete persistence mechanism. Both operations take the active constraint
// system because the loaded/committed scalars must be allocated as
// wires of that system, not bare big.Int values.
type Keeper interface {
	// GeneratePrivateKey mints a fresh private key for a new contract
	// instance.
	GeneratePrivateKey() (*big.Int, error)

	// Fetch loads the contract's current storage value, shaped per
	// schema. DummyKeeper reads the tree's leaves directly and checks
	// no Merkle proof on the way.
	Fetch(cs csys.ConstraintSystem, addr Address, schema value.Type) (value.Value, error)

	// Commit persists v at addr under schema, returning the new root.
	// v's scalars must be compile-time constants.
	Commit(cs csys.ConstraintSystem, addr Address, schema value.Type, v value.Value) ([]byte, error)
}

// DummyKeeper is an in-memory Keeper: one sparse Merkle tree per
// address, suitable for tests and local witness runs.
type DummyKeeper struct {
	mu    sync.Mutex
	trees map[Address]*Tree
}

func NewDummyKeeper() *DummyKeeper {
	return &DummyKeeper{trees: make(map[Address]*Tree)}
}

func (k *DummyKeeper) GeneratePrivateKey() (*big.Int, error) {
	// 31 bytes keeps the key comfortably under the BN256 scalar field
	// modulus without needing a reduction step.
	buf := make([]byte, 31)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("storage: generating private key: %w", err)
	}
	return new(big.Int).SetBytes(buf), nil
}

func (k *DummyKeeper) treeFor(addr Address, schema value.Type) *Tree {
	k.mu.Lock()
	defer k.mu.Unlock()
	t, ok := k.trees[addr]
	if !ok {
		t = NewTree(schema.Size())
		k.trees[addr] = t
	}
	return t
}

func (k *DummyKeeper) Fetch(cs csys.ConstraintSystem, addr Address, schema value.Type) (value.Value, error) {
	t := k.treeFor(addr, schema)
	size := schema.Size()
	scalars := make([]scalar.Scalar, size)

	fields := schema.FlatScalarTypes()
	for i := 0; i < size; i++ {
		raw, err := t.Get(i)
		if err != nil {
			return value.Value{}, err
		}
		scalars[i] = scalar.ConstantFrom(cs, fields[i], raw)
	}
	return value.UnflattenExact(schema, scalars)
}

func (k *DummyKeeper) Commit(cs csys.ConstraintSystem, addr Address, schema value.Type, v value.Value) ([]byte, error) {
	t := k.treeFor(addr, schema)
	flat := value.Flatten(v)
	if len(flat) != schema.Size() {
		return nil, fmt.Errorf("storage: commit arity mismatch: schema wants %d scalars, got %d", schema.Size(), len(flat))
	}
	var root []byte
	for i, s := range flat {
		fieldVal, ok := scalar.IsConstant(cs, s)
		if !ok {
			return nil, fmt.Errorf("storage: commit requires concrete (witness-mode) scalar values")
		}
		// Storage is addressed by raw field representatives, so a
		// negative signed value must be re-wrapped to its canonical
		// form before it becomes a Merkle leaf.
		canonical := new(big.Int).Mod(fieldVal, cs.FieldModulus())
		r, err := t.Set(i, canonical)
		if err != nil {
			return nil, err
		}
		root = r
	}
	if root == nil {
		root = t.Root()
	}
	return root, nil
}

package zinc

import (
	"fmt"
	"io"
	"os"

	"github.com/zinc-lang/zinc/internal/zinc/engine"
)

// VMConfig configures how an Application runs: which curve the
// constraint system is synthesized over (only BN254 is supported, but
// the field is kept so the shape matches a multi-curve config), the
// recursion/call-depth limit, the largest storage schema a method run
// accepts, and where debug opcodes write.
type VMConfig struct {
	// Curve names the scalar field the constraint system is built
	// over. Zinc supports exactly "bn254"; the field exists so
	// VMConfig has the usual curve-selection shape.
	Curve string

	// CallDepthLimit bounds nested Call instructions, guarding
	// against runaway recursion in a malformed bytecode stream.
	CallDepthLimit int

	// StorageTreeDepth bounds contract storage: RunMethod rejects a
	// schema that flattens to more than 2^StorageTreeDepth scalars. It
	// does not set the keeper's tree depth; DummyKeeper sizes each
	// tree from the schema.
	StorageTreeDepth int

	// DebugWriter receives Dbg/FileMarker diagnostic output. Defaults
	// to os.Stderr.
	DebugWriter io.Writer
}

// DefaultVMConfig returns the configuration used when none is given
// explicitly.
func DefaultVMConfig() *VMConfig {
	return &VMConfig{
		Curve:            "bn254",
		CallDepthLimit:   1024,
		StorageTreeDepth: 32,
		DebugWriter:      os.Stderr,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *VMConfig) Validate() error {
	if c.Curve != "bn254" {
		return fmt.Errorf("zinc: unsupported curve %q (only \"bn254\" is implemented)", c.Curve)
	}
	if c.CallDepthLimit <= 0 {
		return fmt.Errorf("zinc: call depth limit must be positive")
	}
	if c.StorageTreeDepth <= 0 {
		return fmt.Errorf("zinc: storage tree depth must be positive")
	}
	if c.DebugWriter == nil {
		return fmt.Errorf("zinc: debug writer must not be nil")
	}
	return nil
}

// WithCurve sets the curve.
func (c *VMConfig) WithCurve(curve string) *VMConfig {
	c.Curve = curve
	return c
}

// WithCallDepthLimit sets the call depth limit.
func (c *VMConfig) WithCallDepthLimit(limit int) *VMConfig {
	c.CallDepthLimit = limit
	return c
}

// WithStorageTreeDepth sets the storage tree depth.
func (c *VMConfig) WithStorageTreeDepth(depth int) *VMConfig {
	c.StorageTreeDepth = depth
	return c
}

// WithDebugWriter sets where debug opcodes write.
func (c *VMConfig) WithDebugWriter(w io.Writer) *VMConfig {
	c.DebugWriter = w
	return c
}

// engineOptions translates the configuration into the engine's knobs.
func (c *VMConfig) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithDebugWriter(c.DebugWriter),
		engine.WithCallDepthLimit(c.CallDepthLimit),
	}
}

// Clone returns a copy of the configuration.
func (c *VMConfig) Clone() *VMConfig {
	clone := *c
	return &clone
}

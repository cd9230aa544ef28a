// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

// NodeFlags is a bitset of per-node state. Currently only liveness is
// tracked, but the type is a bitset (rather than a bare bool) so that
// future flags can be added without changing the node store's column
// layout.
type NodeFlags uint32

const (
	// FlagIsAlive marks a node as a current member of the live cohort.
	FlagIsAlive NodeFlags = 1 << iota
)

func newAliveFlags() NodeFlags {
	return FlagIsAlive
}

// IsAlive reports whether FlagIsAlive is set.
func (f NodeFlags) IsAlive() bool {
	return f&FlagIsAlive != 0
}

func (f *NodeFlags) clearAlive() {
	*f &^= FlagIsAlive
}

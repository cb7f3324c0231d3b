// Copyright 2024 The storagejournal Authors
// This file is part of the storagejournal library.
//
// The storagejournal library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The storagejournal library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the storagejournal library. If not, see <http://www.gnu.org/licenses/>.

package trie

// node is the in-memory representation of one of the four Merkle-Patricia
// node kinds. Exactly one of fullNode, shortNode, hashNode or valueNode
// implements it at any position in the tree.
type node interface {
	// cachedHash returns a previously computed hash commitment for this
	// node, or nil if none has been computed yet.
	cachedHash() []byte
}

type (
	// fullNode is a 16-way branch plus an optional value at the terminator
	// slot (index 16).
	fullNode struct {
		Children [17]node
		hash     []byte
	}

	// shortNode represents either a leaf (Val is a valueNode) or an
	// extension (Val is a fullNode or another shortNode/hashNode). Key is
	// hex-encoded, with a terminator nibble appended for leaves.
	shortNode struct {
		Key  []byte
		Val  node
		hash []byte
	}

	// hashNode is a reference to a node stored out-of-line, addressed by
	// its Keccak-256 hash.
	hashNode []byte

	// valueNode is the raw value stored at a trie leaf.
	valueNode []byte
)

func (n *fullNode) cachedHash() []byte  { return n.hash }
func (n *shortNode) cachedHash() []byte { return n.hash }
func (n hashNode) cachedHash() []byte   { return n }
func (n valueNode) cachedHash() []byte  { return nil }

func (n *fullNode) copy() *fullNode {
	cpy := *n
	cpy.hash = nil
	return &cpy
}

func (n *shortNode) copy() *shortNode {
	cpy := *n
	cpy.hash = nil
	return &cpy
}

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

// Package trie implements a per-account modified Merkle-Patricia trie over
// 256-bit storage slots, following the same branch/extension/leaf node
// design and hex-prefix key encoding as go-ethereum's trie package.
package trie

import (
	"bytes"
	"fmt"

	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/crypto"
)

// NodeReader resolves a previously committed node by its hash.
type NodeReader interface {
	Node(hash common.Hash) ([]byte, error)
}

// NodeWriter persists a node's encoding under its hash.
type NodeWriter interface {
	Put(hash common.Hash, blob []byte) error
}

// NodeStore is the combined read/write contract a StorageTrie needs from
// its node database (typically a *triedb.Database).
type NodeStore interface {
	NodeReader
	NodeWriter
}

// EmptyRootHash is the root commitment of a trie with no entries.
var EmptyRootHash = common.BytesToHash(hashNodeOf(nil))

// StorageTrie is a single account's storage trie: a get/set/root_hash view
// over a modified Merkle-Patricia tree, with node persistence delegated to
// a NodeStore collaborator.
type StorageTrie struct {
	root node
	db   NodeStore
}

// New opens the storage trie rooted at root. A zero or EmptyRootHash root
// opens an empty trie; any other root is resolved lazily from db on first
// access.
func New(root common.Hash, db NodeStore) (*StorageTrie, error) {
	t := &StorageTrie{db: db}
	if root != (common.Hash{}) && root != EmptyRootHash {
		t.root = hashNode(root.Bytes())
	}
	return t, nil
}

// Get returns the value stored at slot, or nil for an absent slot.
func (t *StorageTrie) Get(slot common.Hash) ([]byte, error) {
	key := keybytesToHex(slot.Bytes())
	value, newroot, err := t.get(t.root, key, 0)
	if err != nil {
		return nil, err
	}
	if newroot != nil {
		t.root = newroot
	}
	if value == nil {
		return nil, nil
	}
	return []byte(value.(valueNode)), nil
}

// Set inserts or overwrites the value at slot. Setting a nil or empty
// value removes the slot entirely (EIP-158/1283-style zero-deletion).
func (t *StorageTrie) Set(slot common.Hash, value []byte) error {
	key := keybytesToHex(slot.Bytes())
	if len(value) == 0 {
		_, n, err := t.delete(t.root, key)
		if err != nil {
			return err
		}
		t.root = n
		return nil
	}
	_, n, err := t.insert(t.root, key, valueNode(value))
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

// RootHash returns the 32-byte Keccak-256 commitment to the trie's current
// contents, persisting every dirty (not-yet-hashed) node to the NodeStore
// along the way.
func (t *StorageTrie) RootHash() (common.Hash, error) {
	h, committed, err := t.hashAndCommit(t.root)
	if err != nil {
		return common.Hash{}, err
	}
	t.root = committed
	return common.BytesToHash(h), nil
}

func (t *StorageTrie) resolve(n hashNode) (node, error) {
	blob, err := t.db.Node(common.BytesToHash(n))
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, fmt.Errorf("trie: missing node %x", []byte(n))
	}
	dec, err := decodeNode(blob)
	if err != nil {
		return nil, err
	}
	// dec's content is exactly what n committed, so its commitment is
	// already known: cache it so a later hashAndCommit doesn't redo work
	// for a subtree that was only read, never mutated, since being loaded.
	switch child := dec.(type) {
	case *fullNode:
		child.hash = []byte(n)
	case *shortNode:
		child.hash = []byte(n)
	}
	return dec, nil
}

func (t *StorageTrie) get(n node, key []byte, pos int) (value node, newnode node, err error) {
	switch n := n.(type) {
	case nil:
		return nil, nil, nil
	case valueNode:
		return n, n, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytes.Equal(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, n, nil
		}
		value, newval, err := t.get(n.Val, key, pos+len(n.Key))
		if err == nil && newval != nil {
			cpy := n.copy()
			cpy.Val = newval
			n = cpy
		}
		return value, n, err
	case *fullNode:
		value, newval, err := t.get(n.Children[key[pos]], key, pos+1)
		if err == nil && newval != nil {
			cpy := n.copy()
			cpy.Children[key[pos]] = newval
			n = cpy
		}
		return value, n, err
	case hashNode:
		child, err := t.resolve(n)
		if err != nil {
			return nil, n, err
		}
		value, newnode, err := t.get(child, key, pos)
		return value, newnode, err
	default:
		panic(fmt.Sprintf("trie: %T invalid node: %v", n, n))
	}
}

func (t *StorageTrie) insert(n node, key []byte, value node) (bool, node, error) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok {
			return !bytes.Equal(v, value.(valueNode)), value, nil
		}
		return true, value, nil
	}
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			dirty, nn, err := t.insert(n.Val, key[matchlen:], value)
			if !dirty || err != nil {
				return false, n, err
			}
			return true, &shortNode{Key: n.Key, Val: nn}, nil
		}
		branch := &fullNode{}
		var err error
		_, branch.Children[n.Key[matchlen]], err = t.insert(nil, n.Key[matchlen+1:], n.Val)
		if err != nil {
			return false, nil, err
		}
		_, branch.Children[key[matchlen]], err = t.insert(nil, key[matchlen+1:], value)
		if err != nil {
			return false, nil, err
		}
		if matchlen == 0 {
			return true, branch, nil
		}
		return true, &shortNode{Key: key[:matchlen], Val: branch}, nil
	case *fullNode:
		dirty, nn, err := t.insert(n.Children[key[0]], key[1:], value)
		if !dirty || err != nil {
			return false, n, err
		}
		cpy := n.copy()
		cpy.Children[key[0]] = nn
		return true, cpy, nil
	case nil:
		return true, &shortNode{Key: key, Val: value}, nil
	case hashNode:
		rn, err := t.resolve(n)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.insert(rn, key, value)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil
	default:
		panic(fmt.Sprintf("trie: %T invalid node: %v", n, n))
	}
}

func (t *StorageTrie) delete(n node, key []byte) (bool, node, error) {
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n, nil
		}
		if matchlen == len(key) {
			return true, nil, nil
		}
		dirty, child, err := t.delete(n.Val, key[len(n.Key):])
		if !dirty || err != nil {
			return false, n, err
		}
		switch child := child.(type) {
		case *shortNode:
			return true, &shortNode{Key: concatNibbles(n.Key, child.Key), Val: child.Val}, nil
		default:
			return true, &shortNode{Key: n.Key, Val: child}, nil
		}
	case *fullNode:
		dirty, nn, err := t.delete(n.Children[key[0]], key[1:])
		if !dirty || err != nil {
			return false, n, err
		}
		cpy := n.copy()
		cpy.Children[key[0]] = nn

		pos := -1
		for i, cld := range cpy.Children {
			if cld != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		if pos >= 0 {
			if pos != 16 {
				child, err := t.resolveIfHash(cpy.Children[pos])
				if err != nil {
					return false, nil, err
				}
				if cnode, ok := child.(*shortNode); ok {
					k := append([]byte{byte(pos)}, cnode.Key...)
					return true, &shortNode{Key: k, Val: cnode.Val}, nil
				}
			}
			return true, &shortNode{Key: []byte{byte(pos)}, Val: cpy.Children[pos]}, nil
		}
		return true, cpy, nil
	case valueNode:
		return true, nil, nil
	case nil:
		return false, nil, nil
	case hashNode:
		rn, err := t.resolve(n)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.delete(rn, key)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil
	default:
		panic(fmt.Sprintf("trie: %T invalid node: %v", n, n))
	}
}

func (t *StorageTrie) resolveIfHash(n node) (node, error) {
	if hn, ok := n.(hashNode); ok {
		return t.resolve(hn)
	}
	return n, nil
}

func concatNibbles(a, b []byte) []byte {
	k := make([]byte, len(a)+len(b))
	copy(k, a)
	copy(k[len(a):], b)
	return k
}

// hashAndCommit recursively hashes n, persisting any node whose encoding is
// 32 bytes or more, and returns both the commitment for n (the bytes a
// parent would embed as n's reference) and the possibly-updated node with
// committed children replaced by hashNode placeholders.
func (t *StorageTrie) hashAndCommit(n node) ([]byte, node, error) {
	switch n := n.(type) {
	case nil:
		return hashNodeOf(nil), nil, nil
	case hashNode:
		return []byte(n), n, nil
	case *fullNode:
		if c := n.cachedHash(); c != nil {
			return c, n, nil
		}
		cpy := n.copy()
		for i, c := range n.Children {
			if c == nil {
				continue
			}
			if _, ok := c.(valueNode); ok {
				continue
			}
			_, nc, err := t.hashAndCommit(c)
			if err != nil {
				return nil, nil, err
			}
			cpy.Children[i] = nc
		}
		return t.storeIfLarge(cpy)
	case *shortNode:
		if c := n.cachedHash(); c != nil {
			return c, n, nil
		}
		cpy := n.copy()
		if _, ok := n.Val.(valueNode); !ok && n.Val != nil {
			_, nc, err := t.hashAndCommit(n.Val)
			if err != nil {
				return nil, nil, err
			}
			cpy.Val = nc
		}
		return t.storeIfLarge(cpy)
	default:
		panic(fmt.Sprintf("trie: %T invalid node for commit: %v", n, n))
	}
}

func (t *StorageTrie) storeIfLarge(n node) ([]byte, node, error) {
	enc := encodeNode(n)
	if len(enc) < 32 {
		// n itself (not a hashNode placeholder) stays embedded in its parent,
		// so its commitment is worth memoizing for a future hashAndCommit.
		switch inlined := n.(type) {
		case *fullNode:
			inlined.hash = enc
		case *shortNode:
			inlined.hash = enc
		}
		return enc, n, nil
	}
	h := crypto.Keccak256(enc)
	if err := t.db.Put(common.BytesToHash(h), enc); err != nil {
		return nil, nil, err
	}
	return h, hashNode(h), nil
}

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

import (
	"fmt"

	"github.com/ethj/storagejournal/crypto"
)

// encodeNode returns the raw RLP encoding of n. Child references within n
// are resolved to either their inline encoding (when shorter than a hash)
// or their hash, by encodeRef.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *fullNode:
		items := make([][]byte, 17)
		for i, c := range n.Children {
			items[i] = encodeRef(c)
		}
		return encodeList(items...)
	case *shortNode:
		return encodeList(encodeBytes(hexToCompact(n.Key)), encodeRef(n.Val))
	case valueNode:
		return encodeBytes(n)
	case hashNode:
		return encodeBytes(n)
	case nil:
		return encodeBytes(nil)
	default:
		panic(fmt.Sprintf("trie: unknown node type %T", n))
	}
}

// encodeRef returns the RLP encoding used when n appears as a child of
// another node: its raw encoding if that is shorter than 32 bytes
// (canonical small-node inlining), or a 32-byte hash reference otherwise.
func encodeRef(n node) []byte {
	switch n := n.(type) {
	case nil:
		return encodeBytes(nil)
	case valueNode:
		return encodeBytes(n)
	case hashNode:
		return encodeBytes(n)
	default:
		enc := encodeNode(n)
		if len(enc) < 32 {
			return enc
		}
		return encodeBytes(crypto.Keccak256(enc))
	}
}

// hashNodeOf returns the 32-byte commitment for n, matching the reference
// a parent would store for n via encodeRef once n's own encoding reaches
// the hashing threshold. Used for the trie-level root_hash() query, where
// n is never itself inlined into a (nonexistent) parent.
func hashNodeOf(n node) []byte {
	if n == nil {
		return crypto.Keccak256(encodeBytes(nil))
	}
	return crypto.Keccak256(encodeNode(n))
}

// decodeNode parses the RLP encoding buf of a stored node (always a
// 2-element or 17-element list at the top level).
func decodeNode(buf []byte) (node, error) {
	item, rest, err := rlpSplit(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trie: trailing bytes after node")
	}
	if !item.isList {
		return nil, fmt.Errorf("trie: expected list encoding for node")
	}
	elems, err := splitListItems(item.content)
	if err != nil {
		return nil, err
	}
	switch len(elems) {
	case 2:
		return decodeShort(elems)
	case 17:
		return decodeFull(elems)
	default:
		return nil, fmt.Errorf("trie: invalid node list length %d", len(elems))
	}
}

func decodeShort(elems []rlpItem) (node, error) {
	kbuf := elems[0].content
	key := compactToHex(kbuf)
	if hasTerm(key) {
		return &shortNode{Key: key, Val: valueNode(elems[1].content)}, nil
	}
	val, err := decodeRef(elems[1])
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: val}, nil
}

func decodeFull(elems []rlpItem) (node, error) {
	n := &fullNode{}
	for i := 0; i < 16; i++ {
		child, err := decodeRef(elems[i])
		if err != nil {
			return nil, err
		}
		n.Children[i] = child
	}
	if len(elems[16].content) > 0 {
		n.Children[16] = valueNode(elems[16].content)
	}
	return n, nil
}

func decodeRef(item rlpItem) (node, error) {
	if item.isList {
		return decodeEmbedded(item.content)
	}
	switch len(item.content) {
	case 0:
		return nil, nil
	case 32:
		h := make([]byte, 32)
		copy(h, item.content)
		return hashNode(h), nil
	default:
		return nil, fmt.Errorf("trie: invalid node reference length %d", len(item.content))
	}
}

// decodeEmbedded decodes an inline (non-hashed) child node whose list
// payload bytes were already extracted by the caller.
func decodeEmbedded(content []byte) (node, error) {
	elems, err := splitListItems(content)
	if err != nil {
		return nil, err
	}
	switch len(elems) {
	case 2:
		return decodeShort(elems)
	case 17:
		return decodeFull(elems)
	default:
		return nil, fmt.Errorf("trie: invalid embedded node list length %d", len(elems))
	}
}

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

import "fmt"

// This file implements just enough of the Recursive Length Prefix encoding
// to serialize and deserialize the four trie node shapes. It is not a
// general-purpose RLP codec (go-ethereum's "rlp" package is deliberately
// not vendored here; the node shapes this package needs are fixed and
// small, so a generic reflection-based encoder would be pure overhead —
// see DESIGN.md).

// encodeBytes returns the RLP encoding of a byte string.
func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return append(encodeLength(0x80, len(b)), b...)
}

// encodeList returns the RLP encoding of a list whose items are already
// individually RLP-encoded.
func encodeList(items ...[]byte) []byte {
	var payload []byte
	for _, it := range items {
		payload = append(payload, it...)
	}
	return append(encodeLength(0xc0, len(payload)), payload...)
}

func encodeLength(offset byte, size int) []byte {
	if size < 56 {
		return []byte{offset + byte(size)}
	}
	lenBytes := uintToMinimalBytes(uint64(size))
	return append([]byte{offset + 55 + byte(len(lenBytes))}, lenBytes...)
}

func uintToMinimalBytes(n uint64) []byte {
	if n == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// rlpItem is one decoded top-level RLP value: either a byte string or a
// list, with content holding the raw payload bytes (for a list, the
// concatenated encoding of its elements, not yet split further).
type rlpItem struct {
	isList  bool
	content []byte
}

// rlpSplit decodes a single RLP item from the front of buf and returns it
// along with the remaining bytes.
func rlpSplit(buf []byte) (item rlpItem, rest []byte, err error) {
	if len(buf) == 0 {
		return rlpItem{}, nil, fmt.Errorf("trie: empty rlp input")
	}
	b0 := buf[0]
	switch {
	case b0 < 0x80:
		return rlpItem{content: buf[:1]}, buf[1:], nil
	case b0 < 0xb8:
		size := int(b0 - 0x80)
		if len(buf) < 1+size {
			return rlpItem{}, nil, fmt.Errorf("trie: truncated rlp string")
		}
		return rlpItem{content: buf[1 : 1+size]}, buf[1+size:], nil
	case b0 < 0xc0:
		lenOfLen := int(b0 - 0xb7)
		if len(buf) < 1+lenOfLen {
			return rlpItem{}, nil, fmt.Errorf("trie: truncated rlp string length")
		}
		size := bytesToUint(buf[1 : 1+lenOfLen])
		start := 1 + lenOfLen
		if len(buf) < start+size {
			return rlpItem{}, nil, fmt.Errorf("trie: truncated rlp long string")
		}
		return rlpItem{content: buf[start : start+size]}, buf[start+size:], nil
	case b0 < 0xf8:
		size := int(b0 - 0xc0)
		if len(buf) < 1+size {
			return rlpItem{}, nil, fmt.Errorf("trie: truncated rlp list")
		}
		return rlpItem{isList: true, content: buf[1 : 1+size]}, buf[1+size:], nil
	default:
		lenOfLen := int(b0 - 0xf7)
		if len(buf) < 1+lenOfLen {
			return rlpItem{}, nil, fmt.Errorf("trie: truncated rlp list length")
		}
		size := bytesToUint(buf[1 : 1+lenOfLen])
		start := 1 + lenOfLen
		if len(buf) < start+size {
			return rlpItem{}, nil, fmt.Errorf("trie: truncated rlp long list")
		}
		return rlpItem{isList: true, content: buf[start : start+size]}, buf[start+size:], nil
	}
}

func bytesToUint(b []byte) int {
	var n int
	for _, c := range b {
		n = n<<8 | int(c)
	}
	return n
}

// splitListItems splits the raw payload of a list item into its elements.
func splitListItems(content []byte) ([]rlpItem, error) {
	var items []rlpItem
	for len(content) > 0 {
		item, rest, err := rlpSplit(content)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		content = rest
	}
	return items, nil
}

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

package common

import (
	"fmt"
	"testing"
)

func TestBytesToAddressCropsFromLeft(t *testing.T) {
	long := make([]byte, 25)
	for i := range long {
		long[i] = byte(i)
	}
	a := BytesToAddress(long)
	if !bytesEqual(a.Bytes(), long[5:]) {
		t.Fatalf("expected left-cropped address, got %x", a.Bytes())
	}
}

func TestBytesToAddressPadsShortInput(t *testing.T) {
	a := BytesToAddress([]byte{0xAB})
	if a[19] != 0xAB {
		t.Fatalf("expected last byte 0xAB, got %x", a)
	}
	for i := 0; i < 19; i++ {
		if a[i] != 0 {
			t.Fatalf("expected leading bytes zero-padded, got %x", a)
		}
	}
}

func TestAddressIsZero(t *testing.T) {
	var a Address
	if !a.IsZero() {
		t.Fatal("expected zero-value Address to report IsZero")
	}
	a[0] = 1
	if a.IsZero() {
		t.Fatal("expected non-zero Address to report !IsZero")
	}
}

func TestAddressCmp(t *testing.T) {
	a := BytesToAddress([]byte{1})
	b := BytesToAddress([]byte{2})
	if a.Cmp(b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if b.Cmp(a) <= 0 {
		t.Fatalf("expected b > a")
	}
	if a.Cmp(a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestHashFormatVerb(t *testing.T) {
	h := BytesToHash([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	got := fmt.Sprintf("%x", h)
	want := fmt.Sprintf("%x", h.Bytes())
	if got != want {
		t.Fatalf("expected %%x formatting to match Bytes(), got %q want %q", got, want)
	}
}

func TestHashHexPrefixAndString(t *testing.T) {
	h := BytesToHash([]byte("some 32 byte value padded-----!"))
	if h.Hex()[:2] != "0x" {
		t.Fatalf("expected 0x-prefixed hex, got %q", h.Hex())
	}
	if h.String() != h.Hex() {
		t.Fatalf("expected String() to equal Hex()")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

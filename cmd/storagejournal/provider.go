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

package main

import "github.com/ethj/storagejournal/common"

// recordingProvider is a minimal state.StateProvider that narrates every
// call it receives, for the scenario runner to report on.
type recordingProvider struct {
	exists    map[common.Address]bool
	roots     map[common.Address]common.Hash
	rootCalls []rootUpdate
}

type rootUpdate struct {
	address common.Address
	root    common.Hash
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{
		exists: make(map[common.Address]bool),
		roots:  make(map[common.Address]common.Hash),
	}
}

func (p *recordingProvider) AccountExists(address common.Address) bool {
	return p.exists[address]
}

func (p *recordingProvider) StorageRootOf(address common.Address) common.Hash {
	return p.roots[address]
}

func (p *recordingProvider) UpdateStorageRoot(address common.Address, root common.Hash) error {
	p.roots[address] = root
	p.rootCalls = append(p.rootCalls, rootUpdate{address: address, root: root})
	return nil
}

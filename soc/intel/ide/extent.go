// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

// Extent is a (block, length) pair over a disk's logical block address
// space. The sentinel extent, with either field zero, never initiates I/O.
type Extent struct {
	Block  uint64
	Length uint64
}

// Empty reports whether the extent is a sentinel.
func (e Extent) Empty() bool {
	return e.Block == 0 || e.Length == 0
}

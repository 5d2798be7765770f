// Intel Peripheral Component Interconnect (PCI) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package pci

import (
	"github.com/usbarmory/tamago/bits"
)

// Header Type 0x0 offset holding revision/prog-if/subclass/class.
const (
	ClassRevision = 0x08
)

// Command register bits.
const (
	CommandIO       = 0
	CommandMemory   = 1
	CommandBusMaster = 2
)

// ClassCode returns the device class, subclass and programming
// interface, as found at configuration offset 0x08.
func (d *Device) ClassCode() (class uint8, subclass uint8, progIF uint8) {
	val := d.Read(0, ClassRevision)
	return uint8(val >> 24), uint8(val >> 16), uint8(val >> 8)
}

// EnableBusMastering sets the Bus Master Enable bit in the PCI command
// register, allowing the device to initiate DMA transfers.
func (d *Device) EnableBusMastering() {
	cmd := d.Read(0, Command)
	bits.Set(&cmd, CommandBusMaster)
	d.Write(0, Command, cmd)
}

// IOBaseAddress returns a device Base Address register (BAR) decoded
// as an I/O space address, masking off the fixed bottom bits per the
// PCI specification. It returns 0 if the BAR does not describe I/O
// space.
func (d *Device) IOBaseAddress(n int) uint {
	if n > 5 {
		return 0
	}

	bar := d.Read(0, Bar0+uint32(n)*4)

	if bits.Get(&bar, 0, 0b1) == 0 {
		return 0
	}

	return uint(bar &^ 0b11)
}

// ProbeClass returns all PCI devices on a given bus matching a class
// and subclass code.
func ProbeClass(bus int, class uint8, subclass uint8) (devices []*Device) {
	for _, d := range Devices(bus) {
		c, s, _ := d.ClassCode()

		if c == class && s == subclass {
			devices = append(devices, d)
		}
	}

	return
}

// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package ide implements a driver for legacy IDE/ATA channels attached to a
// PIIX3/PIIX4 compatible PCI IDE controller, supporting programmed I/O and
// bus-master DMA with scatter-gather via a Physical Region Descriptor Table.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=amd64` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package ide

import (
	"github.com/usbarmory/tamago/internal/reg"
)

// Ports abstracts legacy I/O port access, allowing engine code to run
// against real hardware (hwPorts) or a simulated drive and bus-master
// controller (simPorts, package tests only).
type Ports interface {
	In8(port uint16) uint8
	Out8(port uint16, val uint8)
	In16(port uint16) uint16
	Out16(port uint16, val uint16)
	In32(port uint16) uint32
	Out32(port uint16, val uint32)
}

// hwPorts implements Ports over internal/reg's legacy I/O port primitives.
type hwPorts struct{}

func (hwPorts) In8(port uint16) uint8 {
	return reg.In8(port)
}

func (hwPorts) Out8(port uint16, val uint8) {
	reg.Out8(port, val)
}

func (hwPorts) In16(port uint16) uint16 {
	return reg.In16(port)
}

func (hwPorts) Out16(port uint16, val uint16) {
	reg.Out16(port, val)
}

func (hwPorts) In32(port uint16) uint32 {
	return reg.In32(port)
}

func (hwPorts) Out32(port uint16, val uint32) {
	reg.Out32(port, val)
}

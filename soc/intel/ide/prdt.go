// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

import (
	"encoding/binary"

	"github.com/usbarmory/tamago/dma"
)

const (
	prdEntrySize = 8
	prdEOT       = 0x80
	prdtSize     = MaxPRDEntries * prdEntrySize // exactly PRDByteLimit bytes
)

// prdt owns the pinned Physical Region Descriptor Table memory for one
// channel and the bus-master register through which its physical base is
// programmed.
type prdt struct {
	ports    Ports
	addrPort uint16

	addr uint
	buf  []byte
	n    int
}

// newPRDT allocates the pinned PRDT memory and clears the bus-master
// PRDT-address register.
func newPRDT(ports Ports, addrPort uint16) (t *prdt, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, newError(KindOutOfMemory, "prdt")
		}
	}()

	addr, buf := dma.Reserve(prdtSize, PRDByteLimit)

	t = &prdt{ports: ports, addrPort: addrPort, addr: addr, buf: buf}
	t.clear()

	return t, nil
}

// release frees the PRDT memory, clearing the bus-master register first.
func (t *prdt) release() {
	t.clear()

	if t.addr != 0 {
		dma.Release(t.addr)
		t.addr = 0
	}
}

// clear zeroes the PRDT-address register, disarming any in-flight PRDT.
func (t *prdt) clear() {
	t.ports.Out32(t.addrPort, 0)
}

// program loads the PRDT's physical base into the bus-master register.
func (t *prdt) program() {
	t.ports.Out32(t.addrPort, uint32(t.addr))
}

// build populates PRD entries, one per chunk, describing buf in physical
// order with the end-of-table flag on the last entry used.
func (t *prdt) build(buf uint, chunks []chunkSegment) error {
	if len(chunks) == 0 {
		return newError(KindBadRequest, "prdt build")
	}

	if len(chunks) > MaxPRDEntries {
		return newError(KindTooLarge, "prdt build")
	}

	for i, c := range chunks {
		entry := t.buf[i*prdEntrySize : (i+1)*prdEntrySize]

		addr := uint32(buf) + uint32(c.offset)
		size := prdByteCount(int(c.sectors) * SectorSize)

		flags := uint8(0)
		if i == len(chunks)-1 {
			flags = prdEOT
		}

		binary.LittleEndian.PutUint32(entry[0:4], addr)
		binary.LittleEndian.PutUint16(entry[4:6], size)
		entry[6] = 0
		entry[7] = flags
	}

	t.n = len(chunks)

	return nil
}

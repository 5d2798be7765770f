// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

import "encoding/binary"

// pioTransfer performs a PIO read or write of sectors sectors starting at
// lba, splitting the transfer into MaxSyncSectors-sized hardware transfers.
func (c *channelHW) pioTransfer(master bool, lba uint64, sectors int, buf []byte, write bool) error {
	if len(buf) == 0 || sectors <= 0 {
		return newError(KindBadRequest, "pio")
	}

	off := 0

	for _, seg := range splitSync(lba, sectors) {
		n := int(seg.sectors) * SectorSize

		if err := c.pioSmall(master, seg.lba, seg.sectors, buf[off:off+n], write); err != nil {
			return err
		}

		off += n
	}

	return nil
}

// pioSmall performs one hardware PIO transfer of up to MaxSyncSectors
// sectors, polling DRQ per sector and shuffling 256 words per sector
// through the data port.
func (c *channelHW) pioSmall(master bool, lba uint64, sectors uint16, buf []byte, write bool) error {
	cmd := uint8(CmdReadPIOExt)
	if write {
		cmd = CmdWritePIOExt
	}

	if err := c.programTaskFile(master, lba, sectors, cmd, c.effectiveTimeout()); err != nil {
		return err
	}

	n := int(sectors)
	if sectors == 0 {
		n = 65536
	}

	for sec := 0; sec < n; sec++ {
		result := c.poll(c.effectiveTimeout(), true)
		if result != PollOK {
			return c.classify("pio", result)
		}

		base := sec * SectorSize

		if write {
			for w := 0; w < SectorSize/2; w++ {
				c.ports.Out16(c.cmdBase+RegData, binary.LittleEndian.Uint16(buf[base+w*2:]))
			}

			c.ports.Out8(c.cmdBase+RegStatus, CmdCacheFlushExt)
			c.poll(c.effectiveTimeout(), false)
		} else {
			for w := 0; w < SectorSize/2; w++ {
				binary.LittleEndian.PutUint16(buf[base+w*2:], c.ports.In16(c.cmdBase+RegData))
			}
		}
	}

	return nil
}

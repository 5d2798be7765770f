// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

import "time"

// programTaskFile selects the drive and writes a 48-bit LBA task file for
// the given command: the high sector-count and LBA3/LBA4/LBA5 bytes first, then
// the low sector-count and LBA0/LBA1/LBA2 bytes, then the command byte.
// Drive selection is bounded by timeout; a wedged BSY line is reported
// rather than programming the rest of the task file.
func (c *channelHW) programTaskFile(master bool, lba uint64, sectors uint16, cmd uint8, timeout time.Duration) error {
	if err := c.selectDevice(master, timeout); err != nil {
		return err
	}

	c.ports.Out8(c.cmdBase+RegSectorCount, uint8(sectors>>8))
	c.ports.Out8(c.cmdBase+RegLBA0, uint8(lba>>24))
	c.ports.Out8(c.cmdBase+RegLBA1, uint8(lba>>32))
	c.ports.Out8(c.cmdBase+RegLBA2, uint8(lba>>40))

	c.ports.Out8(c.cmdBase+RegSectorCount, uint8(sectors))
	c.ports.Out8(c.cmdBase+RegLBA0, uint8(lba))
	c.ports.Out8(c.cmdBase+RegLBA1, uint8(lba>>8))
	c.ports.Out8(c.cmdBase+RegLBA2, uint8(lba>>16))

	c.ports.Out8(c.cmdBase+RegStatus, cmd)

	return nil
}

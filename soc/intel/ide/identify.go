// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

// identify issues the IDENTIFY DEVICE command and returns the device's
// sector count. It returns ok=false, with no further commands issued, if
// the bus is floating or the device reports no status. IDENTIFY is purely
// diagnostic: only device presence is consumed by the rest of the driver,
// the channel factory does not use the returned sector count.
func (c *channelHW) identify(master bool) (sectors uint64, ok bool) {
	if c.readAltStatus() == 0xff {
		return 0, false
	}

	if err := c.selectDevice(master, c.effectiveTimeout()); err != nil {
		return 0, false
	}

	c.ports.Out8(c.cmdBase+RegSectorCount, 0)
	c.ports.Out8(c.cmdBase+RegLBA0, 0)
	c.ports.Out8(c.cmdBase+RegLBA1, 0)
	c.ports.Out8(c.cmdBase+RegLBA2, 0)
	c.ports.Out8(c.cmdBase+RegStatus, CmdIdentify)

	if c.readAltStatus() == 0 {
		return 0, false
	}

	if result := c.poll(c.effectiveTimeout(), true); result != PollOK {
		return 0, false
	}

	var words [256]uint16

	for i := range words {
		words[i] = c.ports.In16(c.cmdBase + RegData)
	}

	sectors = uint64(words[100]) | uint64(words[101])<<16 | uint64(words[102])<<32 | uint64(words[103])<<48

	if sectors == 0 {
		sectors = uint64(words[60]) | uint64(words[61])<<16
	}

	return sectors, true
}

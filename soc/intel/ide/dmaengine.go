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
	"runtime"
	"time"
)

// dmaTransferSync performs a blocking bus-master DMA transfer, splitting it
// into MaxSyncSectors-sized hardware transfers, each built and armed
// synchronously rather than through the request dispatcher.
func (c *channelHW) dmaTransferSync(master bool, lba uint64, sectors int, buf uint, write bool) error {
	if buf == 0 || sectors <= 0 {
		return newError(KindBadRequest, "dma")
	}

	offset := uint(0)

	for _, seg := range splitSync(lba, sectors) {
		n := int(seg.sectors)
		if seg.sectors == 0 {
			n = 65536
		}

		if err := c.dmaSmallSync(master, seg.lba, seg.sectors, buf+offset, write); err != nil {
			return err
		}

		offset += uint(n) * SectorSize
	}

	return nil
}

// dmaSmallSync performs one synchronous bus-master DMA transfer of up to
// MaxSyncSectors sectors: builds the PRDT, arms ACT with the DIR bit set
// for reads, and spins on bus-master status until the transfer ends.
func (c *channelHW) dmaSmallSync(master bool, lba uint64, sectors uint16, buf uint, write bool) error {
	n := int(sectors)
	if sectors == 0 {
		n = 65536
	}

	chunks, err := buildPRDChunks(lba, n)
	if err != nil {
		return err
	}

	// chunkSegment offsets are expressed relative to this transfer's own
	// buffer, not the caller's whole-request buffer.
	for i := range chunks {
		chunks[i].offset -= chunks[0].offset
	}

	c.ports.Out8(c.busMasterBase+BMCommand, 0)
	c.prdt.clear()

	status := c.ports.In8(c.busMasterBase + BMStatus)
	c.ports.Out8(c.busMasterBase+BMStatus, status)

	if err := c.prdt.build(buf, chunks); err != nil {
		return err
	}

	c.prdt.program()

	dir := uint8(0)
	if !write {
		dir = 1 << BMCmdDIR
	}

	c.ports.Out8(c.busMasterBase+BMCommand, dir)

	cmd := uint8(CmdReadDMAExt)
	if write {
		cmd = CmdWriteDMAExt
	}

	timeout := c.effectiveTimeout()

	if err := c.programTaskFile(master, lba, sectors, cmd, timeout); err != nil {
		return err
	}

	c.ports.Out8(c.busMasterBase+BMCommand, dir|1<<BMCmdACT)

	start := time.Now()
	timedOut := false

	for {
		s := c.ports.In8(c.busMasterBase + BMStatus)

		act := s&(1<<BMStatusACT) != 0
		irq := s&(1<<BMStatusINT) != 0
		errBit := s&(1<<BMStatusERR) != 0

		if !act || irq || errBit {
			break
		}

		if time.Since(start) >= timeout {
			timedOut = true
			break
		}

		runtime.Gosched()
	}

	c.ports.Out8(c.busMasterBase+BMCommand, dir)
	c.prdt.clear()

	status = c.ports.In8(c.busMasterBase + BMStatus)
	c.ports.Out8(c.busMasterBase+BMStatus, status)

	if timedOut {
		return newError(KindDriveError, "dma")
	}

	if status&(1<<BMStatusERR) != 0 {
		return newError(KindDmaError, "dma")
	}

	return nil
}

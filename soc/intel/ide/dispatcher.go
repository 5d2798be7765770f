// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

// queuedRequest pairs a Request with the drive it targets, since master and
// slave share one dispatcher and one PRDT.
type queuedRequest struct {
	master bool
	req    *Request
}

func (c *channelHW) lock() {
	if c.disableIRQ != nil {
		c.disableIRQ()
	}

	c.mu.Lock()
}

func (c *channelHW) unlock() {
	c.mu.Unlock()

	if c.enableIRQ != nil {
		c.enableIRQ()
	}
}

// submit enqueues req and, if the channel is idle, starts it immediately.
func (c *channelHW) submit(master bool, req *Request) {
	c.lock()
	defer c.unlock()

	c.queue = append(c.queue, queuedRequest{master: master, req: req})

	if c.current == nil {
		c.advanceRequestLocked()
	}
}

// advanceRequestLocked disarms the hardware, completes the previous
// request (if any), and starts the next queued request by building its
// PRDT over the whole transfer and arming the first chunk. Must be called
// with c.mu held.
func (c *channelHW) advanceRequestLocked() {
	c.ports.Out8(c.busMasterBase+BMCommand, 0)
	c.prdt.clear()

	if c.current != nil {
		c.current.complete(c.pendingErr)
		c.current = nil
		c.pendingErr = nil
	}

	if len(c.queue) == 0 {
		return
	}

	qr := c.queue[0]
	c.queue = c.queue[1:]

	sectors := int(qr.req.Extent.Length / SectorSize)

	chunks, err := buildPRDChunks(qr.req.Extent.Block, sectors)
	if err != nil {
		qr.req.complete(err)
		c.advanceRequestLocked()
		return
	}

	if err := c.prdt.build(qr.req.Buffer, chunks); err != nil {
		qr.req.complete(err)
		c.advanceRequestLocked()
		return
	}

	c.current = qr.req
	c.currentMaster = qr.master
	c.write = qr.req.Dir == Write
	c.chunks = chunks
	c.chunkIdx = 0

	c.prdt.program()

	c.dir = uint8(0)
	if !c.write {
		c.dir = 1 << BMCmdDIR
	}

	c.ports.Out8(c.busMasterBase+BMCommand, c.dir)

	c.advanceChunkLocked()
}

// advanceChunkLocked arms the next chunk of the current request, or, once
// none remain, advances to the next queued request. Must be called with
// c.mu held.
func (c *channelHW) advanceChunkLocked() {
	if c.chunkIdx >= len(c.chunks) {
		c.advanceRequestLocked()
		return
	}

	seg := c.chunks[c.chunkIdx]
	c.chunkIdx++

	cmd := uint8(CmdReadDMAExt)
	if c.write {
		cmd = CmdWriteDMAExt
	}

	if err := c.programTaskFile(c.currentMaster, seg.lba, seg.sectors, cmd, c.effectiveTimeout()); err != nil {
		c.pendingErr = err
		c.advanceRequestLocked()
		return
	}

	c.ports.Out8(c.busMasterBase+BMCommand, c.dir|1<<BMCmdACT)
}

// onInterrupt is the channel's interrupt entry point: it reads bus-master
// status, write-1-to-clears it, and either fails the current request (DMA
// error) or advances to the next chunk.
func (c *channelHW) onInterrupt() {
	c.lock()
	defer c.unlock()

	status := c.ports.In8(c.busMasterBase + BMStatus)
	if status&(1<<BMStatusINT) == 0 {
		return
	}

	c.ports.Out8(c.busMasterBase+BMStatus, status)

	if status&(1<<BMStatusERR) != 0 {
		c.pendingErr = newError(KindDmaError, "dma-irq")
		c.ports.Out8(c.busMasterBase+BMCommand, 0)
		c.advanceRequestLocked()
		return
	}

	if cmdReg := c.ports.In8(c.busMasterBase + BMCommand); cmdReg&(1<<BMCmdACT) != 0 {
		c.advanceChunkLocked()
	}
}

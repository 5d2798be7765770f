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
	"sync"
	"time"
)

// channelHW is the hardware resource shared by the master and slave
// BlockDevice front-ends of one legacy IDE position: task-file and
// bus-master registers, the PRDT, and the request dispatcher state.
type channelHW struct {
	ports             Ports
	cmdBase, ctrlBase uint16
	busMasterBase     uint16
	irqVector         int

	prdt *prdt

	timeout time.Duration

	mu         sync.Mutex
	disableIRQ func()
	enableIRQ  func()

	current       *Request
	currentMaster bool
	write         bool
	dir           uint8
	chunks        []chunkSegment
	chunkIdx      int
	pendingErr    error
	queue         []queuedRequest
}

// BlockDevice is the capability set consumed by callers of a probed IDE
// position.
type BlockDevice interface {
	Name() string
	Read(block uint64, buffer []byte) (int, error)
	Write(block uint64, buffer []byte) (int, error)
	Submit(req *Request) error
	OnInterrupt()
}

// Channel is one of the four legacy IDE positions (primary/secondary ×
// master/slave). Primary master and primary slave, like secondary master
// and secondary slave, share a channelHW and therefore serialize with each
// other.
type Channel struct {
	hw     *channelHW
	master bool
	name   string
}

var _ BlockDevice = (*Channel)(nil)

// Name returns a human-readable identifier, e.g. "IDE Primary Master".
func (ch *Channel) Name() string {
	return ch.name
}

// IRQVector returns the interrupt vector this channel's hardware raises on
// transfer completion, for board-level IRQ routing.
func (ch *Channel) IRQVector() int {
	return ch.hw.irqVector
}

// SetInterruptControl installs the hooks the dispatcher calls around its
// critical section. On real hardware these should disable/enable CPU
// interrupts; left nil, the dispatcher relies on its mutex alone.
func (ch *Channel) SetInterruptControl(disable, enable func()) {
	ch.hw.disableIRQ = disable
	ch.hw.enableIRQ = enable
}

// SetTimeout bounds every polling wait (BSY, DRQ, bus-master ACT) this
// channel performs. Zero restores DefaultTimeout.
func (ch *Channel) SetTimeout(d time.Duration) {
	ch.hw.timeout = d
}

// Read performs a blocking PIO read of len(buffer)/512 sectors starting at
// block. buffer's length must be a non-zero multiple of 512.
func (ch *Channel) Read(block uint64, buffer []byte) (int, error) {
	if len(buffer) == 0 || len(buffer)%SectorSize != 0 {
		return 0, newError(KindBadRequest, "read")
	}

	if err := ch.hw.pioTransfer(ch.master, block, len(buffer)/SectorSize, buffer, false); err != nil {
		return 0, err
	}

	return len(buffer), nil
}

// Write performs a blocking PIO write of len(buffer)/512 sectors starting
// at block. Each hardware transfer ends with CACHE_FLUSH_EXT.
func (ch *Channel) Write(block uint64, buffer []byte) (int, error) {
	if len(buffer) == 0 || len(buffer)%SectorSize != 0 {
		return 0, newError(KindBadRequest, "write")
	}

	if err := ch.hw.pioTransfer(ch.master, block, len(buffer)/SectorSize, buffer, true); err != nil {
		return 0, err
	}

	return len(buffer), nil
}

// ReadDMA performs a blocking bus-master DMA read of length/512 sectors
// into the pinned physical buffer buf, starting at block.
func (ch *Channel) ReadDMA(block uint64, buf uint, length int) error {
	if length == 0 || length%SectorSize != 0 {
		return newError(KindBadRequest, "dma read")
	}

	return ch.hw.dmaTransferSync(ch.master, block, length/SectorSize, buf, false)
}

// WriteDMA performs a blocking bus-master DMA write of length/512 sectors
// from the pinned physical buffer buf, starting at block.
func (ch *Channel) WriteDMA(block uint64, buf uint, length int) error {
	if length == 0 || length%SectorSize != 0 {
		return newError(KindBadRequest, "dma write")
	}

	return ch.hw.dmaTransferSync(ch.master, block, length/SectorSize, buf, true)
}

// Submit enqueues an asynchronous, IRQ-driven DMA request. At most one
// transfer per channelHW is in flight; additional submissions queue.
func (ch *Channel) Submit(req *Request) error {
	if req == nil || req.Buffer == 0 || req.Extent.Empty() {
		return newError(KindBadRequest, "submit")
	}

	if req.Extent.Length%SectorSize != 0 {
		return newError(KindBadRequest, "submit")
	}

	ch.hw.submit(ch.master, req)

	return nil
}

// OnInterrupt is the channel's interrupt entry point, called by the board's
// ISR dispatch for this channel's IRQ vector.
func (ch *Channel) OnInterrupt() {
	ch.hw.onInterrupt()
}

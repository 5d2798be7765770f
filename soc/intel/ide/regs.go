// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

// Task-file register offsets, relative to a channel's command base.
const (
	RegData        = 0x0
	RegError       = 0x1 // read; Features on write
	RegSectorCount = 0x2
	RegLBA0        = 0x3
	RegLBA1        = 0x4
	RegLBA2        = 0x5
	RegDevice      = 0x6
	RegStatus      = 0x7 // read; Command on write
)

// Control register offset, relative to a channel's control base.
const (
	RegAltStatus = 0x2
)

// Bus-master register offsets, relative to a channel's bus-master base.
const (
	BMCommand     = 0x0
	BMStatus      = 0x2
	BMPRDTAddress = 0x4
)

// Bus-master command register bits.
const (
	BMCmdACT = 0
	BMCmdDIR = 3
)

// Bus-master status register bits. ERR and INT are write-1-to-clear.
const (
	BMStatusACT = 0
	BMStatusERR = 1
	BMStatusINT = 2
)

// Status register bits.
const (
	StatusERR  = 0
	StatusIDX  = 1
	StatusCORR = 2
	StatusDRQ  = 3
	StatusDSC  = 4
	StatusDF   = 5
	StatusDRDY = 6
	StatusBSY  = 7
)

// Device-select byte, LBA mode with 48-bit addressing.
const (
	DeviceSelectMaster = 0xe0
	DeviceSelectSlave  = 0xf0
)

// ATA commands used by this driver.
const (
	CmdReadPIOExt    = 0x24
	CmdWritePIOExt   = 0x34
	CmdReadDMAExt    = 0x25
	CmdWriteDMAExt   = 0x35
	CmdIdentify      = 0xec
	CmdCacheFlushExt = 0xea
)

// Legacy ISA port assignments for the two IDE channels.
const (
	PrimaryCommandBase   = 0x1f0
	PrimaryControlBase   = 0x3f4
	SecondaryCommandBase = 0x170
	SecondaryControlBase = 0x374
)

// PCI class/subclass for IDE mass-storage controllers.
const (
	pciClassMassStorage = 0x01
	pciSubclassIDE      = 0x01
)

// Poll classification results.
const (
	PollOK          = 0
	PollDeviceFault = 1
	PollError       = 2
	PollNoDRQ       = 3
	PollTimeout     = 4
)

// Geometry constants.
const (
	SectorSize = 512

	// MaxSyncSectors bounds a single hardware transfer for the PIO engine
	// and for the synchronous DMA engine, keeping both transfer engines
	// on one consistent segmentation rule.
	MaxSyncSectors = 255

	// ChunkSectors is the sector count of one PRD entry (64KiB) used by
	// the IRQ-driven DMA dispatcher.
	ChunkSectors = 128

	// PRDByteLimit is the maximum byte count a single PRD entry can
	// describe; encoded as 0 in the PRD when reached exactly.
	PRDByteLimit = 65536

	// MaxPRDEntries bounds the PRDT capacity, and therefore the largest
	// buffer a single DMA request can describe (512MiB).
	MaxPRDEntries = 8192
)

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
	"sync"
	"unsafe"

	"github.com/usbarmory/tamago/dma"
)

// Fixed port assignments used by every sim-backed test, mirroring the
// primary legacy position plus an arbitrary bus-master base.
const (
	simCmdBase  = PrimaryCommandBase
	simCtrlBase = PrimaryControlBase
	simBMBase   = 0xc000
)

var (
	dmaOnce    sync.Once
	dmaBacking [32 << 20]byte
)

// ensureDMA installs a global DMA region backed by ordinary Go memory, so
// dma.Reserve/dma.Alloc hand out addresses this process can dereference
// directly, exactly as a real pinned buffer's address would be on hardware.
func ensureDMA() {
	dmaOnce.Do(func() {
		dma.Init(uint(uintptr(unsafe.Pointer(&dmaBacking[0]))), len(dmaBacking))
	})
}

// physSlice views a physical address handed out by the dma package as a Go
// byte slice, the same trick simPorts uses to move data in and out of a
// caller's pinned buffer without a real bus-master engine.
func physSlice(addr uint, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
}

// simDrive is an in-memory stand-in for an ATA drive.
type simDrive struct {
	data []byte
}

func newSimDrive(sectors int) *simDrive {
	return &simDrive{data: make([]byte, sectors*SectorSize)}
}

func (d *simDrive) identifyWords() (words [256]uint16) {
	sectors := uint64(len(d.data) / SectorSize)

	words[60] = uint16(sectors)
	words[61] = uint16(sectors >> 16)
	words[100] = uint16(sectors)
	words[101] = uint16(sectors >> 16)
	words[102] = uint16(sectors >> 32)
	words[103] = uint16(sectors >> 48)

	return words
}

// simPorts simulates one legacy IDE position: task-file/control registers,
// a bus-master controller, and up to two attached drives. It understands
// just enough of the protocol this driver actually speaks - in particular
// it collapses each two-phase 48-bit register write to its final (low) byte,
// since this driver always writes a zero high byte at the scale it supports.
type simPorts struct {
	master, slave  *simDrive
	selectedMaster bool

	seccount         uint8
	lba0, lba1, lba2 uint8

	status uint8
	errReg uint8

	pioDrive      *simDrive
	pioLBA        int
	pioRemaining  int
	pioWrite      bool
	pioWords      []uint16
	pioIdx        int

	dmaDrive     *simDrive
	dmaLBA       int
	dmaRemaining int
	dmaWrite     bool

	bmCmd    uint8
	bmStatus uint8
	bmPRDT   uint32
	prdIndex int

	forceDmaError bool

	cmdLog []uint8
}

func (p *simPorts) drive() *simDrive {
	if p.selectedMaster {
		return p.master
	}
	return p.slave
}

func (p *simPorts) In8(port uint16) uint8 {
	switch port {
	case simCtrlBase + RegAltStatus:
		return p.status
	case simCmdBase + RegStatus:
		return p.status
	case simCmdBase + RegError:
		return p.errReg
	case simBMBase + BMStatus:
		return p.bmStatus
	case simBMBase + BMCommand:
		return p.bmCmd
	}

	return 0
}

func (p *simPorts) Out8(port uint16, val uint8) {
	switch port {
	case simCmdBase + RegDevice:
		p.selectedMaster = val == DeviceSelectMaster
	case simCmdBase + RegSectorCount:
		p.seccount = val
	case simCmdBase + RegLBA0:
		p.lba0 = val
	case simCmdBase + RegLBA1:
		p.lba1 = val
	case simCmdBase + RegLBA2:
		p.lba2 = val
	case simCmdBase + RegStatus:
		p.cmdLog = append(p.cmdLog, val)
		p.command(val)
	case simBMBase + BMCommand:
		p.bmCommand(val)
	case simBMBase + BMStatus:
		p.bmStatus &^= val
	}
}

func (p *simPorts) command(cmd uint8) {
	lba := int(p.lba0) | int(p.lba1)<<8 | int(p.lba2)<<16
	sectors := int(p.seccount)
	if sectors == 0 {
		sectors = 65536
	}

	switch cmd {
	case CmdIdentify:
		d := p.drive()
		if d == nil {
			p.status = 0
			return
		}

		words := d.identifyWords()
		p.pioWords = words[:]
		p.pioIdx = 0
		p.status = 1<<StatusDRDY | 1<<StatusDRQ

	case CmdReadPIOExt, CmdWritePIOExt:
		d := p.drive()
		if d == nil || (lba+sectors)*SectorSize > len(d.data) {
			p.status = 1<<StatusDRDY | 1<<StatusERR
			p.errReg = 0x10
			return
		}

		p.pioDrive = d
		p.pioLBA = lba
		p.pioRemaining = sectors
		p.pioWrite = cmd == CmdWritePIOExt
		p.loadPIOSector()

	case CmdCacheFlushExt:
		// a flush issued between sectors of a PIO write leaves the next
		// sector's DRQ asserted
		if p.pioRemaining <= 0 {
			p.status = 1 << StatusDRDY
		}

	case CmdReadDMAExt, CmdWriteDMAExt:
		p.dmaDrive = p.drive()
		p.dmaLBA = lba
		p.dmaRemaining = sectors
		p.dmaWrite = cmd == CmdWriteDMAExt
		p.status = 1 << StatusDRDY
	}
}

// loadPIOSector prepares the current sector's worth of words for transfer,
// or drops DRQ once the command's sector count is exhausted.
func (p *simPorts) loadPIOSector() {
	if p.pioRemaining <= 0 {
		p.status = 1 << StatusDRDY
		return
	}

	if p.pioWrite {
		p.pioWords = make([]uint16, SectorSize/2)
	} else {
		off := p.pioLBA * SectorSize
		buf := p.pioDrive.data[off : off+SectorSize]
		words := make([]uint16, SectorSize/2)

		for i := range words {
			words[i] = binary.LittleEndian.Uint16(buf[i*2:])
		}

		p.pioWords = words
	}

	p.pioIdx = 0
	p.status = 1<<StatusDRDY | 1<<StatusDRQ
}

func (p *simPorts) In16(port uint16) uint16 {
	if port != simCmdBase+RegData || p.pioIdx >= len(p.pioWords) {
		return 0
	}

	w := p.pioWords[p.pioIdx]
	p.pioIdx++

	if p.pioIdx == len(p.pioWords) {
		p.pioLBA++
		p.pioRemaining--
		p.loadPIOSector()
	}

	return w
}

func (p *simPorts) Out16(port uint16, val uint16) {
	if port != simCmdBase+RegData || p.pioIdx >= len(p.pioWords) {
		return
	}

	p.pioWords[p.pioIdx] = val
	p.pioIdx++

	if p.pioIdx == len(p.pioWords) {
		off := p.pioLBA * SectorSize
		buf := p.pioDrive.data[off : off+SectorSize]

		for i, w := range p.pioWords {
			binary.LittleEndian.PutUint16(buf[i*2:], w)
		}

		p.pioLBA++
		p.pioRemaining--
		p.loadPIOSector()
	}
}

func (p *simPorts) In32(port uint16) uint32 {
	return 0
}

func (p *simPorts) Out32(port uint16, val uint32) {
	if port == simBMBase+BMPRDTAddress {
		p.bmPRDT = val
		p.prdIndex = 0
	}
}

// bmCommand models the bus-master controller: asserting ACT moves PRD
// entries, continuing from the last one used, until the sector count of the
// issued DMA command is met or the end-of-table entry is reached, and raises
// INT on completion. A dispatcher chunk command covers one PRD entry, a
// synchronous transfer command covers its whole PRDT.
func (p *simPorts) bmCommand(val uint8) {
	p.bmCmd = val

	if val&(1<<BMCmdACT) == 0 {
		return
	}

	if p.forceDmaError {
		p.forceDmaError = false
		p.bmStatus |= 1<<BMStatusERR | 1<<BMStatusINT
		return
	}

	if p.dmaDrive == nil || p.bmPRDT == 0 {
		p.bmStatus |= 1<<BMStatusERR | 1<<BMStatusINT
		return
	}

	for p.dmaRemaining > 0 {
		entry := physSlice(uint(p.bmPRDT)+uint(p.prdIndex*prdEntrySize), prdEntrySize)

		addr := binary.LittleEndian.Uint32(entry[0:4])
		size := int(binary.LittleEndian.Uint16(entry[4:6]))
		if size == 0 {
			size = PRDByteLimit
		}
		eot := entry[7]&prdEOT != 0

		buf := physSlice(uint(addr), size)
		off := p.dmaLBA * SectorSize

		if p.dmaWrite {
			copy(p.dmaDrive.data[off:off+size], buf)
		} else {
			copy(buf, p.dmaDrive.data[off:off+size])
		}

		p.dmaLBA += size / SectorSize
		p.dmaRemaining -= size / SectorSize
		p.prdIndex++

		if eot {
			p.prdIndex = 0
			break
		}
	}

	p.bmStatus |= 1 << BMStatusINT
}

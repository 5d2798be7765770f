// QEMU pc (i440fx/q35) support for tamago/amd64
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package pc provides hardware initialization, automatically on import, for
// a QEMU `-machine pc` or `-machine q35` target configured with a single
// x86_64 core and a PIIX3/PIIX4 compatible IDE controller on the PCI bus.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=amd64` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package pc

import (
	"runtime"
	_ "unsafe"

	"github.com/usbarmory/tamago/amd64"
	"github.com/usbarmory/tamago/amd64/lapic"
	"github.com/usbarmory/tamago/dma"
	"github.com/usbarmory/tamago/soc/intel/ide"
	"github.com/usbarmory/tamago/soc/intel/ioapic"
	"github.com/usbarmory/tamago/soc/intel/uart"
)

const (
	dmaStart = 0x50000000
	dmaSize  = 0x10000000 // 256MB
)

// Peripheral registers
const (
	// Communication port
	COM1 = 0x3f8

	// Intel I/O Programmable Interrupt Controllers
	LAPIC_BASE   = 0xfee00000
	IOAPIC0_BASE = 0xfec00000

	// Legacy ISA IRQ lines routed through the I/O APIC for the PIIX IDE
	// controller (82371AB/EB - PIIX4 IDE, section 9.1).
	IRQ_IDE_PRIMARY   = 14
	IRQ_IDE_SECONDARY = 15
)

// Peripheral instances
var (
	// CPU instance
	AMD64 = &amd64.CPU{
		// required before Init()
		TimerMultiplier: 1,
		// Local APIC
		LAPIC: &lapic.LAPIC{
			Base: LAPIC_BASE,
		},
	}

	// I/O APIC - GSI 0-23 (covers the legacy ISA IRQ lines)
	IOAPIC0 = &ioapic.IOAPIC{
		Index:   0,
		Base:    IOAPIC0_BASE,
		GSIBase: 0,
	}

	// Serial console
	UART0 = &uart.UART{
		Index: 1,
		Base:  COM1,
	}

	// IDE controller channels, populated by Probe() once the PCI bus has
	// been enumerated.
	IDE []*ide.Channel
)

//go:linkname nanotime1 runtime.nanotime1
func nanotime1() int64 {
	return AMD64.GetTime()
}

// Init takes care of the lower level initialization triggered early in
// runtime setup (post World start).
//
//go:linkname Init runtime.hwinit1
func Init() {
	AMD64.Init()

	IOAPIC0.Init()
	IOAPIC0.EnableInterrupt(IRQ_IDE_PRIMARY, 32+IRQ_IDE_PRIMARY)
	IOAPIC0.EnableInterrupt(IRQ_IDE_SECONDARY, 32+IRQ_IDE_SECONDARY)

	UART0.Init()
	ide.SetOutput(UART0)

	for _, ch := range IDE {
		ch.SetInterruptControl(AMD64.DisableInterrupts, AMD64.EnableInterrupts)
	}

	go AMD64.ServiceInterrupts(ideISR)

	runtime.Exit = func(_ int32) {
		// On QEMU the recommended way to trigger a guest-initiated shut
		// down is by generating a triple-fault.
		amd64.Fault()
	}
}

func init() {
	AMD64.EnableExceptions()

	// allocate global DMA region, used for PRDT and scratch buffers
	dma.Init(dmaStart, dmaSize)

	IDE = ide.Probe()
}

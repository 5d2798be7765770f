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
	"github.com/usbarmory/tamago/soc/intel/pci"
)

// Legacy ISA IRQ lines, routed by the board through the I/O APIC onto
// vectors 32+IRQ.
const (
	IRQPrimary   = 14
	IRQSecondary = 15

	vectorBase = 32
)

func newChannelHW(ports Ports, cmdBase, ctrlBase, busMasterBase uint16, irqVector int) (*channelHW, error) {
	t, err := newPRDT(ports, busMasterBase+BMPRDTAddress)
	if err != nil {
		return nil, err
	}

	return &channelHW{
		ports:         ports,
		cmdBase:       cmdBase,
		ctrlBase:      ctrlBase,
		busMasterBase: busMasterBase,
		irqVector:     irqVector,
		prdt:          t,
	}, nil
}

// probePosition constructs the shared hardware for one legacy IDE position
// (primary or secondary) and runs IDENTIFY against both drive selects,
// returning a *Channel for each that responds.
func probePosition(ports Ports, label string, cmdBase, ctrlBase, busMasterBase uint16, irqVector int) []*Channel {
	hw, err := newChannelHW(ports, cmdBase, ctrlBase, busMasterBase, irqVector)
	if err != nil {
		logger.Printf("%s: %v", label, err)
		return nil
	}

	var channels []*Channel

	for _, pos := range [...]struct {
		master bool
		suffix string
	}{
		{true, "Master"},
		{false, "Slave"},
	} {
		if _, ok := hw.identify(pos.master); !ok {
			continue
		}

		channels = append(channels, &Channel{
			hw:     hw,
			master: pos.master,
			name:   label + " " + pos.suffix,
		})
	}

	if len(channels) == 0 {
		hw.prdt.release()
	}

	return channels
}

// Probe discovers PCI IDE mass-storage controllers, enables bus-mastering
// on each, and probes all four legacy positions behind their bus-master
// base. Positions with no device attached are discarded; absence of a
// recognized PCI IDE controller yields zero channels.
func Probe() []*Channel {
	var channels []*Channel

	for _, dev := range pci.ProbeClass(0, pciClassMassStorage, pciSubclassIDE) {
		dev.EnableBusMastering()

		busMaster := uint16(dev.IOBaseAddress(4))
		if busMaster == 0 {
			continue
		}

		channels = append(channels, probePosition(hwPorts{}, "IDE Primary",
			PrimaryCommandBase, PrimaryControlBase, busMaster, vectorBase+IRQPrimary)...)
		channels = append(channels, probePosition(hwPorts{}, "IDE Secondary",
			SecondaryCommandBase, SecondaryControlBase, busMaster+8, vectorBase+IRQSecondary)...)
	}

	return channels
}

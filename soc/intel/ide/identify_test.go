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
	"testing"
	"time"
)

// scriptedPorts is a minimal Ports double for exercising status.go and
// identify.go in isolation, independent of the fuller simPorts protocol
// engine used for end-to-end transfer tests.
type scriptedPorts struct {
	altStatus     uint8
	status        uint8
	errReg        uint8
	identifyWords [256]uint16
	dataIdx       int
	cmdLog        []uint8
}

func (p *scriptedPorts) In8(port uint16) uint8 {
	switch port {
	case simCtrlBase + RegAltStatus:
		return p.altStatus
	case simCmdBase + RegStatus:
		return p.status
	case simCmdBase + RegError:
		return p.errReg
	}
	return 0
}

func (p *scriptedPorts) Out8(port uint16, val uint8) {
	if port == simCmdBase+RegStatus {
		p.cmdLog = append(p.cmdLog, val)
	}
}

func (p *scriptedPorts) In16(port uint16) uint16 {
	if port == simCmdBase+RegData && p.dataIdx < len(p.identifyWords) {
		w := p.identifyWords[p.dataIdx]
		p.dataIdx++
		return w
	}
	return 0
}

func (p *scriptedPorts) Out16(uint16, uint16) {}
func (p *scriptedPorts) In32(uint16) uint32   { return 0 }
func (p *scriptedPorts) Out32(uint16, uint32) {}

func newScriptedHW(p *scriptedPorts) *channelHW {
	return &channelHW{ports: p, cmdBase: simCmdBase, ctrlBase: simCtrlBase}
}

// IDENTIFY parses the 48-bit sector count from words 100-103.
func TestIdentify48Bit(t *testing.T) {
	p := &scriptedPorts{altStatus: 0x50, status: 0x58}
	p.identifyWords[100] = 0x0000
	p.identifyWords[101] = 0x0008

	hw := newScriptedHW(p)

	sectors, ok := hw.identify(true)
	if !ok {
		t.Fatalf("identify reported not ok")
	}
	if sectors != 0x80000 {
		t.Fatalf("sectors = %#x, want %#x", sectors, 0x80000)
	}
}

// When words 100-103 are zero, IDENTIFY falls back to the 28-bit sector
// count in words 60-61.
func TestIdentify28BitFallback(t *testing.T) {
	p := &scriptedPorts{altStatus: 0x50, status: 0x58}
	p.identifyWords[60] = 0xffff
	p.identifyWords[61] = 0x000f

	hw := newScriptedHW(p)

	sectors, ok := hw.identify(true)
	if !ok {
		t.Fatalf("identify reported not ok")
	}
	if want := uint64(0x000f0000) | 0xffff; sectors != want {
		t.Fatalf("sectors = %#x, want %#x", sectors, want)
	}
}

// A floating bus (alt-status reads 0xff) is reported as absent without
// issuing any command.
func TestIdentifyFloatingBus(t *testing.T) {
	p := &scriptedPorts{altStatus: 0xff}
	hw := newScriptedHW(p)

	_, ok := hw.identify(true)
	if ok {
		t.Fatalf("identify reported ok on a floating bus")
	}
	if len(p.cmdLog) != 0 {
		t.Fatalf("identify issued %d commands on a floating bus, want 0", len(p.cmdLog))
	}
}

// A device that answers with status zero after IDENTIFY is issued is
// reported as absent.
func TestIdentifyNoStatus(t *testing.T) {
	p := &scriptedPorts{altStatus: 0}
	hw := newScriptedHW(p)

	_, ok := hw.identify(true)
	if ok {
		t.Fatalf("identify reported ok with status always zero")
	}
}

// poll classifies drive status into the documented outcomes, checking ERR
// ahead of DF.
func TestPollClassification(t *testing.T) {
	cases := []struct {
		name   string
		status uint8
		want   int
	}{
		{"ok", 1<<StatusDRDY | 1<<StatusDRQ, PollOK},
		{"error", 1<<StatusDRDY | 1<<StatusERR, PollError},
		{"error-and-fault", 1<<StatusDRDY | 1<<StatusERR | 1<<StatusDF, PollError},
		{"device-fault", 1<<StatusDRDY | 1<<StatusDF, PollDeviceFault},
		{"no-drq", 1 << StatusDRDY, PollNoDRQ},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &scriptedPorts{altStatus: 0, status: c.status}
			hw := newScriptedHW(p)

			if got := hw.poll(time.Second, true); got != c.want {
				t.Errorf("poll() = %d, want %d", got, c.want)
			}
		})
	}
}

// A drive whose BSY line never clears fails the poll with PollTimeout
// rather than spinning forever.
func TestPollTimeout(t *testing.T) {
	p := &scriptedPorts{altStatus: 1 << StatusBSY}
	hw := newScriptedHW(p)

	if got := hw.poll(time.Millisecond, true); got != PollTimeout {
		t.Fatalf("poll() = %d, want %d", got, PollTimeout)
	}
}

func TestClassify(t *testing.T) {
	p := &scriptedPorts{errReg: 0x04}
	hw := newScriptedHW(p)

	if err := hw.classify("op", PollOK); err != nil {
		t.Errorf("classify(PollOK) = %v, want nil", err)
	}
	if err := hw.classify("op", PollDeviceFault); !errorsIsKind(err, KindDeviceFault) {
		t.Errorf("classify(PollDeviceFault) = %v, want DeviceFault", err)
	}
	if err := hw.classify("op", PollError); !errorsIsKind(err, KindDriveError) {
		t.Errorf("classify(PollError) = %v, want DriveError", err)
	}
	if err := hw.classify("op", PollNoDRQ); !errorsIsKind(err, KindProtocolError) {
		t.Errorf("classify(PollNoDRQ) = %v, want ProtocolError", err)
	}
}

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

func (c *channelHW) readStatus() uint8 {
	return c.ports.In8(c.cmdBase + RegStatus)
}

func (c *channelHW) readAltStatus() uint8 {
	return c.ports.In8(c.ctrlBase + RegAltStatus)
}

func (c *channelHW) readError() uint8 {
	return c.ports.In8(c.cmdBase + RegError)
}

// poll spins on alt-status BSY, bounded by timeout (grounded on
// internal/reg.WaitFor's timeout loop). When checkError is set, once BSY
// clears it samples the normal status register and classifies the result:
// PollOK, PollDeviceFault, PollError, PollNoDRQ or PollTimeout.
func (c *channelHW) poll(timeout time.Duration, checkError bool) int {
	start := time.Now()

	for c.readAltStatus()&(1<<StatusBSY) != 0 {
		runtime.Gosched()

		if time.Since(start) >= timeout {
			return PollTimeout
		}
	}

	if !checkError {
		return PollOK
	}

	status := c.readStatus()

	switch {
	case status&(1<<StatusERR) != 0:
		return PollError
	case status&(1<<StatusDF) != 0:
		return PollDeviceFault
	case status&(1<<StatusDRQ) == 0:
		return PollNoDRQ
	default:
		return PollOK
	}
}

// classify converts a poll() result into the corresponding *Error, or nil
// for PollOK. A wedged drive (PollTimeout) is reported as a DriveError.
func (c *channelHW) classify(op string, result int) error {
	switch result {
	case PollDeviceFault:
		return newErrorDetail(KindDeviceFault, op, c.readError())
	case PollError:
		return newErrorDetail(KindDriveError, op, c.readError())
	case PollNoDRQ:
		return newError(KindProtocolError, op)
	case PollTimeout:
		return newError(KindDriveError, op)
	default:
		return nil
	}
}

// selectDevice waits for BSY clear, writes the device-select byte for
// master or slave, and performs the four throwaway alt-status reads that
// give the drive 400ns to settle before further register access. The whole
// sequence is bounded by timeout; a wedged BSY line is reported as a
// DriveError.
func (c *channelHW) selectDevice(master bool, timeout time.Duration) error {
	start := time.Now()

	for c.readAltStatus()&(1<<StatusBSY) != 0 {
		runtime.Gosched()

		if time.Since(start) >= timeout {
			return newError(KindDriveError, "select")
		}
	}

	sel := uint8(DeviceSelectMaster)
	if !master {
		sel = DeviceSelectSlave
	}

	c.ports.Out8(c.cmdBase+RegDevice, sel)

	c.readAltStatus()
	c.readAltStatus()
	c.readAltStatus()
	c.readAltStatus()

	for c.readAltStatus()&(1<<StatusBSY) != 0 {
		runtime.Gosched()

		if time.Since(start) >= timeout {
			return newError(KindDriveError, "select")
		}
	}

	return nil
}

// https://github.com/usbarmory/tamago
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

// defined in msr_amd64.s
func rdmsr(addr uint32) (val uint64)
func wrmsr(addr uint32, val uint64)

// ReadMSR returns the value of the amd64 Model Specific Register at the
// given address.
func ReadMSR(addr uint64) uint64 {
	return rdmsr(uint32(addr))
}

// WriteMSR sets the amd64 Model Specific Register at the given address.
func WriteMSR(addr uint64, val uint64) {
	wrmsr(uint32(addr), val)
}

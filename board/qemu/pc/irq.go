// QEMU pc support for tamago/amd64
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package pc

// ideISR dispatches a received interrupt vector to every channel whose
// hardware raised it. Primary master/slave and secondary master/slave
// share hardware in pairs, so a vector only ever matches one or two
// *ide.Channel entries, and OnInterrupt on a channel not actually
// signaling is a no-op (its bus-master INT bit is clear).
func ideISR(vector int) {
	for _, ch := range IDE {
		if ch.IRQVector() == vector {
			ch.OnInterrupt()
		}
	}
}

// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

import "sync/atomic"

// Direction is the transfer direction of a Request.
type Direction int

const (
	Read Direction = iota
	Write
)

// Request is a logical transfer submitted to a channel's dispatcher. The
// physical buffer must remain pinned and untouched by the caller from
// Submit until Done reports true.
type Request struct {
	Extent Extent
	// Buffer is the physical address of the caller's pinned buffer, as
	// returned by dma.Alloc/dma.Reserve.
	Buffer uint
	Dir    Direction

	done uint32
	err  error
}

// Done reports whether the dispatcher has completed this request.
func (r *Request) Done() bool {
	return atomic.LoadUint32(&r.done) == 1
}

// Err returns the completion error, valid only once Done reports true.
func (r *Request) Err() error {
	return r.err
}

func (r *Request) complete(err error) {
	r.err = err
	atomic.StoreUint32(&r.done, 1)
}

// First-fit memory allocator for DMA buffers
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dma provides primitives for direct memory allocation and
// alignment, it is primarily used in bare metal device driver operation to
// avoid passing Go pointers for DMA purposes.
//
// This package is only meant to be used with `GOOS=tamago` as supported by
// the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package dma

import (
	"container/list"
	"errors"
)

// NewRegion allocates a new memory region for DMA buffer allocation, the
// caller must guarantee that the passed memory range is never used by the Go
// runtime or by any other region.
//
// The reserved argument is not stored: the returned region treats its whole
// range as free memory, available to Alloc() and Reserve() alike.
func NewRegion(addr uint, size int, reserved bool) (*Region, error) {
	if size <= 0 {
		return nil, errors.New("invalid region size")
	}

	r := &Region{
		start: addr,
		size:  uint(size),
	}

	b := &block{
		addr: addr,
		size: uint(size),
	}

	r.freeBlocks = list.New()
	r.freeBlocks.PushFront(b)

	r.usedBlocks = make(map[uint]*block)

	return r, nil
}

// Init initializes the global memory region for DMA buffer allocation, the
// application must guarantee that the passed memory range is never used by
// the Go runtime (defining runtime.ramStart and runtime.ramSize
// accordingly).
//
// The global region is used throughout the tamago package for all DMA
// allocations. Separate DMA regions can be allocated in other areas (e.g.
// device BAR windows) by the application using NewRegion().
func Init(start uint, size int) {
	r, err := NewRegion(start, size, false)

	if err != nil {
		panic(err)
	}

	dma = r
}

// Reserve is the equivalent of Region.Reserve() on the global DMA region.
func Reserve(size int, align int) (addr uint, buf []byte) {
	return dma.Reserve(size, align)
}

// Reserved is the equivalent of Region.Reserved() on the global DMA region.
func Reserved(buf []byte) (res bool, addr uint) {
	return dma.Reserved(buf)
}

// Alloc is the equivalent of Region.Alloc() on the global DMA region.
func Alloc(buf []byte, align int) (addr uint) {
	return dma.Alloc(buf, align)
}

// Read is the equivalent of Region.Read() on the global DMA region.
func Read(addr uint, off int, buf []byte) {
	dma.Read(addr, off, buf)
}

// Write is the equivalent of Region.Write() on the global DMA region.
func Write(addr uint, off int, buf []byte) {
	dma.Write(addr, off, buf)
}

// Free is the equivalent of Region.Free() on the global DMA region.
func Free(addr uint) {
	dma.Free(addr)
}

// Release is the equivalent of Region.Release() on the global DMA region.
func Release(addr uint) {
	dma.Release(addr)
}

// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

// syncSegment is one hardware transfer of up to MaxSyncSectors sectors, used
// by the PIO engine and the synchronous DMA engine.
type syncSegment struct {
	lba     uint64
	sectors uint16
}

// splitSync splits a logical transfer into successive MaxSyncSectors
// segments plus a final remainder segment, advancing LBA by the segment
// count at each step.
func splitSync(lba uint64, sectors int) []syncSegment {
	var segs []syncSegment

	sec := 0
	for sectors-sec >= MaxSyncSectors {
		segs = append(segs, syncSegment{lba: lba + uint64(sec), sectors: MaxSyncSectors})
		sec += MaxSyncSectors
	}

	if sec < sectors {
		segs = append(segs, syncSegment{lba: lba + uint64(sec), sectors: uint16(sectors - sec)})
	}

	return segs
}

// chunkSegment is one PRD entry's worth of a DMA transfer: up to
// ChunkSectors sectors, at a byte offset into the transfer's buffer.
type chunkSegment struct {
	lba     uint64
	sectors uint16
	offset  uint
}

// buildPRDChunks splits an N-sector DMA transfer into ceil(N/ChunkSectors)
// chunks, one per PRD entry, with the split points at lba+ChunkSectors*i and
// buffer offsets at PRDByteLimit*i.
func buildPRDChunks(lba uint64, sectors int) ([]chunkSegment, error) {
	if sectors <= 0 {
		return nil, newError(KindBadRequest, "buildPRDChunks")
	}

	if sectors > MaxPRDEntries*ChunkSectors {
		return nil, newError(KindTooLarge, "buildPRDChunks")
	}

	entries := sectors / ChunkSectors
	remainder := sectors % ChunkSectors

	segs := make([]chunkSegment, 0, entries+1)

	for i := 0; i < entries; i++ {
		segs = append(segs, chunkSegment{
			lba:     lba + uint64(i*ChunkSectors),
			sectors: ChunkSectors,
			offset:  uint(i) * PRDByteLimit,
		})
	}

	if remainder > 0 {
		segs = append(segs, chunkSegment{
			lba:     lba + uint64(entries*ChunkSectors),
			sectors: uint16(remainder),
			offset:  uint(entries) * PRDByteLimit,
		})
	}

	return segs, nil
}

// taskFileSectorCount encodes a sector count for the task-file sector-count
// register, where 65536 sectors is represented as zero.
func taskFileSectorCount(sectors int) uint16 {
	if sectors == 65536 {
		return 0
	}

	return uint16(sectors)
}

// prdByteCount encodes a byte count for a PRD entry, where PRDByteLimit
// bytes is represented as zero.
func prdByteCount(bytes int) uint16 {
	if bytes == PRDByteLimit {
		return 0
	}

	return uint16(bytes)
}

package core

import (
	"encoding/binary"
	"io"

	"switchbank/protocol"
)

// NVSAddress is a byte offset into non-volatile storage
type NVSAddress uint16

// NVSTransferResult reports the outcome of an NVS read or write
type NVSTransferResult uint8

const (
	NVSTransferOK NVSTransferResult = iota
	NVSTransferFailed
)

// NVSCoreSize is reserved at the start of storage for the core
const NVSCoreSize = 64

const nvsChecksumSize = 2

// Storage is the byte-addressable medium behind NVS
type Storage interface {
	io.ReaderAt
	io.WriterAt
	Size() int
}

// NVS hands out regions of Storage to plugins and checksums records
type NVS struct {
	storage Storage
	next    int
}

// NewNVS creates an allocator over storage
func NewNVS(storage Storage) *NVS {
	return &NVS{storage: storage, next: NVSCoreSize}
}

// Alloc reserves size bytes plus room for a checksum
func (n *NVS) Alloc(size int) (NVSAddress, bool) {
	if size <= 0 || n.next+size+nvsChecksumSize > n.storage.Size() {
		return 0, false
	}
	addr := NVSAddress(n.next)
	n.next += size + nvsChecksumSize
	return addr, true
}

// Free returns the number of unallocated bytes
func (n *NVS) Free() int {
	return n.storage.Size() - n.next
}

// Write stores data at addr, followed by its CRC16 when withChecksum is set
func (n *NVS) Write(addr NVSAddress, data []byte, withChecksum bool) NVSTransferResult {
	size := len(data)
	if withChecksum {
		size += nvsChecksumSize
	}
	if int(addr)+size > n.storage.Size() {
		return NVSTransferFailed
	}

	buf := make([]byte, size)
	copy(buf, data)
	if withChecksum {
		binary.LittleEndian.PutUint16(buf[len(data):], protocol.CRC16(data))
	}
	if _, err := n.storage.WriteAt(buf, int64(addr)); err != nil {
		DebugPrintln("[NVS] write at " + utoa(uint32(addr)) + " failed: " + err.Error())
		return NVSTransferFailed
	}
	return NVSTransferOK
}

// Read fills data from addr. With withChecksum set the stored CRC16 must match.
func (n *NVS) Read(data []byte, addr NVSAddress, withChecksum bool) NVSTransferResult {
	size := len(data)
	if withChecksum {
		size += nvsChecksumSize
	}
	if int(addr)+size > n.storage.Size() {
		return NVSTransferFailed
	}

	buf := make([]byte, size)
	if _, err := n.storage.ReadAt(buf, int64(addr)); err != nil {
		DebugPrintln("[NVS] read at " + utoa(uint32(addr)) + " failed: " + err.Error())
		return NVSTransferFailed
	}
	if withChecksum {
		stored := binary.LittleEndian.Uint16(buf[len(data):])
		if stored != protocol.CRC16(buf[:len(data)]) {
			return NVSTransferFailed
		}
	}
	copy(data, buf)
	return NVSTransferOK
}

// Erase fills the whole storage with the erased value 0xFF
func (n *NVS) Erase() error {
	var blank [32]byte
	for i := range blank {
		blank[i] = 0xFF
	}
	for off := 0; off < n.storage.Size(); off += len(blank) {
		chunk := blank[:]
		if rest := n.storage.Size() - off; rest < len(chunk) {
			chunk = chunk[:rest]
		}
		if _, err := n.storage.WriteAt(chunk, int64(off)); err != nil {
			return err
		}
	}
	return nil
}

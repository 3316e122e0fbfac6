package power

import (
	"encoding/binary"
	"hash/crc32"
)

// Memory is the battery-backed byte store behind the wake record. It
// survives deep-sleep resets but not power loss, and reads undefined bytes
// after a cold boot — which is exactly why the record carries a checksum.
type Memory interface {
	Read(buf []byte) error
	Write(buf []byte) error
}

// Store serialises WakeState into a checksummed fixed-size record. Write
// always recomputes the checksum and forces the magic marker; callers cannot
// desynchronise them.
type Store struct {
	mem Memory
}

func NewStore(mem Memory) *Store { return &Store{mem: mem} }

// Read loads and verifies the record. It returns ok=false on a hardware read
// failure, a checksum mismatch, or a missing magic marker — including the
// cold power-on case where the backing memory is undefined. The returned
// state is the zero value whenever ok is false; callers must never trust a
// partially-valid record.
func (st *Store) Read() (WakeState, bool) {
	var buf [recordSize]byte
	if err := st.mem.Read(buf[:]); err != nil {
		return WakeState{}, false
	}

	sum := binary.LittleEndian.Uint32(buf[0:4])
	magic := binary.LittleEndian.Uint32(buf[4:8])
	if sum != crc32.ChecksumIEEE(buf[4:]) || magic != wakeMagic {
		return WakeState{}, false
	}

	return WakeState{
		QuietWakeTarget: binary.LittleEndian.Uint32(buf[8:12]),
		CyclesRemaining: binary.LittleEndian.Uint32(buf[12:16]),
	}, true
}

// Write persists the state with a fresh checksum and marker.
func (st *Store) Write(s WakeState) error {
	var buf [recordSize]byte
	binary.LittleEndian.PutUint32(buf[4:8], wakeMagic)
	binary.LittleEndian.PutUint32(buf[8:12], s.QuietWakeTarget)
	binary.LittleEndian.PutUint32(buf[12:16], s.CyclesRemaining)
	binary.LittleEndian.PutUint32(buf[0:4], crc32.ChecksumIEEE(buf[4:]))
	return st.mem.Write(buf[:])
}

// Clear writes an all-default record. The marker stays valid: a cleared
// record means the same thing as a never-written one to every consumer, but
// remains distinguishable for diagnostics.
func (st *Store) Clear() error {
	return st.Write(WakeState{})
}

//go:build !rp2040

package rtcmem

// Mem is the host stand-in: 32 bytes of process memory, matching the size of
// the rp2040 scratch area. It persists across simulated boots within one
// process, which mirrors "survives reset, not power loss" closely enough for
// the simulator.
type Mem struct {
	data [32]byte
}

func New() *Mem { return &Mem{} }

func (m *Mem) Size() int { return len(m.data) }

func (m *Mem) Read(buf []byte) error {
	if len(buf) > len(m.data) {
		return ErrTooLarge
	}
	copy(buf, m.data[:len(buf)])
	return nil
}

func (m *Mem) Write(buf []byte) error {
	if len(buf) > len(m.data) {
		return ErrTooLarge
	}
	copy(m.data[:], buf)
	return nil
}

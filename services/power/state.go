package power

// WakeState is the minimal wake-scheduling record carried across deep-sleep
// resets. It lives in battery-backed scratch memory and is the only state
// the node persists between power cycles.
type WakeState struct {
	// QuietWakeTarget is the Unix timestamp at which the quiet period ends.
	// Meaningful only while CyclesRemaining > 0.
	QuietWakeTarget uint32
	// CyclesRemaining counts the sleep chunks still owed before the node
	// resumes measuring. The last chunk is always the sync-wake. Zero means
	// the node is not in quiet mode.
	CyclesRemaining uint32
}

// InQuietMode reports whether a quiet countdown is active.
func (s WakeState) InQuietMode() bool { return s.CyclesRemaining > 0 }

// Record layout: [checksum:4][magic:4][quietWakeTarget:4][cyclesRemaining:4],
// little-endian. The layout never leaves the device, so there is no
// cross-build portability requirement.
const (
	recordSize = 16

	// wakeMagic distinguishes a written record from cold-boot garbage.
	wakeMagic = 0x57414B45 // "WAKE"
)

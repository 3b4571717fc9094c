package cpu

// Flags register bits, set by CMP.
const (
	FLAG_EQUAL   = Flags(1 << 0)
	FLAG_GREATER = Flags(1 << 1)
	FLAG_LESS    = Flags(1 << 2)
	FLAG_MASK    = FLAG_EQUAL | FLAG_GREATER | FLAG_LESS
)

// Flags is the condition code register.
type Flags byte

// Equal returns true if the last compare was equal.
func (fl Flags) Equal() bool { return fl&FLAG_EQUAL != 0 }

// Greater returns true if the last compare found A > B.
func (fl Flags) Greater() bool { return fl&FLAG_GREATER != 0 }

// Less returns true if the last compare found A < B.
func (fl Flags) Less() bool { return fl&FLAG_LESS != 0 }

// compareFlags computes the flags for a compare of a against b.
func compareFlags(a, b int) (fl Flags) {
	if a < b {
		fl |= FLAG_LESS
	}
	if a > b {
		fl |= FLAG_GREATER
	}
	if a == b {
		fl |= FLAG_EQUAL
	}
	return
}

// RegisterFile is the bank of general purpose registers.
//
// Values are plain integers; no width is imposed here.
type RegisterFile struct {
	Data [REGISTER_COUNT]int
}

// Get returns the value of register index.
func (rf *RegisterFile) Get(index int) (value int, err error) {
	if index < 0 || index >= len(rf.Data) {
		err = ErrRegister
		return
	}

	value = rf.Data[index]
	return
}

// Set stores value in register index.
func (rf *RegisterFile) Set(index int, value int) (err error) {
	if index < 0 || index >= len(rf.Data) {
		err = ErrRegister
		return
	}

	rf.Data[index] = value
	return
}

// Reset zeros all registers.
func (rf *RegisterFile) Reset() {
	clear(rf.Data[:])
}

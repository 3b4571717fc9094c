package cpu

const (
	MEMORY_SIZE    = 256 // Addressable memory cells.
	REGISTER_COUNT = 8   // General purpose registers.
)

// Memory is the flat LS8 memory.
type Memory struct {
	Data [MEMORY_SIZE]byte
}

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(mem.Data) {
		err = ErrAddress
		return
	}

	value = mem.Data[address]
	return
}

// Write stores value at address.
func (mem *Memory) Write(address int, value byte) (err error) {
	if address < 0 || address >= len(mem.Data) {
		err = ErrAddress
		return
	}

	mem.Data[address] = value
	return
}

// Load copies data into memory starting at address.
// Nothing is written if data does not fit.
func (mem *Memory) Load(address int, data []byte) (err error) {
	if address < 0 || address+len(data) > len(mem.Data) {
		err = ErrAddress
		return
	}

	copy(mem.Data[address:], data)
	return
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}

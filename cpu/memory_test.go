package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	for _, address := range []int{0, 1, 0x7f, 0xff} {
		assert.NoError(mem.Write(address, byte(address^0x5a)))
		value, err := mem.Read(address)
		assert.NoError(err)
		assert.Equal(byte(address^0x5a), value)
	}
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	for _, address := range []int{-1, MEMORY_SIZE, MEMORY_SIZE + 1, 1 << 20} {
		_, err := mem.Read(address)
		assert.ErrorIs(err, ErrAddress, address)
		assert.ErrorIs(mem.Write(address, 1), ErrAddress, address)
	}
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.NoError(mem.Load(0xfe, []byte{1, 2}))
	assert.Equal(byte(1), mem.Data[0xfe])
	assert.Equal(byte(2), mem.Data[0xff])

	assert.ErrorIs(mem.Load(0xff, []byte{3, 4}), ErrAddress)
	assert.Equal(byte(2), mem.Data[0xff])

	mem.Reset()
	assert.Equal([MEMORY_SIZE]byte{}, mem.Data)
}

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Check value from RFC 3720, appendix B.4.
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("12345"), nil, []byte("6789")))

	h := NewCRC32C()
	_, _ = h.Write([]byte("123456789"))
	assert.Equal(t, uint32(0xe3069283), h.Sum32())

	assert.True(t, Verify(0xe3069283, []byte("1234"), []byte("56789")))
	assert.False(t, Verify(0xe3069283, []byte("123456780")))
}

package keycodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppend_Deterministic(t *testing.T) {
	assert.Equal(t, Bytes("hello"), Bytes("hello"))
	assert.Equal(t, Bytes(42), Bytes(42))
	assert.Equal(t, Bytes(3.14), Bytes(3.14))
}

func TestAppend_Injective(t *testing.T) {
	assert.NotEqual(t, Bytes(1), Bytes(2))
	assert.NotEqual(t, Bytes("a"), Bytes("b"))
	assert.NotEqual(t, Bytes(uint32(7)), Bytes(uint32(8)))
	assert.NotEqual(t, Bytes(float64(1.0)), Bytes(float64(1.5)))
}

func TestAppend_UsesDst(t *testing.T) {
	dst := []byte{0xff}
	out := Append(dst, "x")
	assert.Equal(t, []byte{0xff, 'x'}, out)
}

func TestAppend_NamedType(t *testing.T) {
	type myKey string

	assert.Equal(t, Bytes(myKey("k1")), Bytes(myKey("k1")))
	assert.NotEqual(t, Bytes(myKey("k1")), Bytes(myKey("k2")))
}

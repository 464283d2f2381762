package serial

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSink_transferEmitsByteAndResetsControl(t *testing.T) {
	var out bytes.Buffer
	irqCount := 0
	sink := NewLogSink(&out, func() { irqCount++ })

	sink.Write(0xFF01, 'c')
	sink.Write(0xFF02, 0x81)

	assert.Equal(t, "c", out.String())
	assert.Equal(t, byte(0), sink.Read(0xFF02))
	assert.Equal(t, 1, irqCount)
}

func TestLogSink_nonTransferWriteDoesNotEmit(t *testing.T) {
	var out bytes.Buffer
	sink := NewLogSink(&out, nil)

	sink.Write(0xFF01, 'x')
	sink.Write(0xFF02, 0x01)

	assert.Equal(t, "", out.String())
	assert.Equal(t, byte(0x01), sink.Read(0xFF02))
}

func TestLogSink_accumulatesAcrossTransfers(t *testing.T) {
	var out bytes.Buffer
	sink := NewLogSink(&out, nil)

	for _, c := range []byte("ok\n") {
		sink.Write(0xFF01, c)
		sink.Write(0xFF02, 0x81)
	}

	assert.Equal(t, "ok\n", sink.String())
	assert.Equal(t, "ok\n", out.String())
}

func TestLogSink_reset(t *testing.T) {
	var out bytes.Buffer
	sink := NewLogSink(&out, nil)

	sink.Write(0xFF01, 'a')
	sink.Write(0xFF02, 0x81)
	sink.Reset()

	assert.Equal(t, "", sink.String())
	assert.Equal(t, byte(0), sink.Read(0xFF01))
	assert.Equal(t, byte(0), sink.Read(0xFF02))
}

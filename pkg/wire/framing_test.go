package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("movered"),
		{},
		{0x00, 0xFF, 0x00, 0xFF},
		bytes.Repeat([]byte{0xAB}, 70000), // больше одного TCP-сегмента
	}

	for _, payload := range payloads {
		var buf bytes.Buffer
		require.NoError(t, WriteFrame(&buf, payload))

		got, err := ReadFrame(&buf)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestFrameHeaderIsLittleEndian(t *testing.T) {
	// Формат зафиксирован vision-сервером: struct.pack("<I", len).
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("idle")))

	header := buf.Bytes()[:4]
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(header))
	assert.Equal(t, []byte{4, 0, 0, 0}, header)
}

func TestReadFramePartialReads(t *testing.T) {
	// Сервер может отдавать данные кусками. ReadFrame обязан дочитать.
	client, server := net.Pipe()
	defer client.Close()

	payload := bytes.Repeat([]byte("x"), 1000)

	go func() {
		defer server.Close()
		var buf bytes.Buffer
		_ = WriteFrame(&buf, payload)
		raw := buf.Bytes()
		// Пишем по 7 байт
		for len(raw) > 0 {
			n := 7
			if n > len(raw) {
				n = len(raw)
			}
			if _, err := server.Write(raw[:n]); err != nil {
				return
			}
			raw = raw[n:]
		}
	}()

	got, err := ReadFrame(client)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameRejectsOversizedHeader(t *testing.T) {
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], MaxPayload+1)

	_, err := ReadFrame(bytes.NewReader(header[:]))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	err := WriteFrame(io.Discard, make([]byte, MaxPayload+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestReadCommandEOF(t *testing.T) {
	_, err := ReadCommand(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestCommandRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCommand(&buf, "pickup"))

	cmd, err := ReadCommand(&buf)
	require.NoError(t, err)
	assert.Equal(t, "pickup", cmd)
}

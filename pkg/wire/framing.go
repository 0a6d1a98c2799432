package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Протокол обмена с vision-сервером предельно простой:
// каждое сообщение - это 4 байта длины (uint32, little-endian),
// за которыми идет ровно столько байт полезной нагрузки.
// Клиент шлет JPEG-кадры, сервер отвечает ASCII-командами.

// MaxPayload - защита от мусорного префикса длины.
// Кадр 1080p в JPEG занимает сотни килобайт, 8 MiB хватает с запасом.
const MaxPayload = 8 << 20

// ErrPayloadTooLarge возвращается, когда префикс длины превышает MaxPayload.
// Обычно это значит, что поток рассинхронизировался и соединение надо закрыть.
var ErrPayloadTooLarge = fmt.Errorf("wire: payload exceeds %d bytes", MaxPayload)

// WriteFrame отправляет префикс длины и полезную нагрузку одним буфером,
// чтобы не дробить запись на два syscall.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrPayloadTooLarge
	}

	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(payload)))
	copy(buf[4:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("wire: write frame: %w", err)
	}
	return nil
}

// ReadFrame читает одно сообщение целиком.
// io.ReadFull докручивает частичные чтения до полной длины,
// как read_exact на стороне сервера.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("wire: read header: %w", err)
	}

	length := binary.LittleEndian.Uint32(header[:])
	if length > MaxPayload {
		return nil, ErrPayloadTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("wire: read payload: %w", err)
	}
	return payload, nil
}

// WriteCommand отправляет ASCII-команду ("movered", "pickup", "idle")
// в том же формате с префиксом длины.
func WriteCommand(w io.Writer, cmd string) error {
	return WriteFrame(w, []byte(cmd))
}

// ReadCommand читает команду и возвращает ее строкой.
func ReadCommand(r io.Reader) (string, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

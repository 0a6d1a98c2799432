package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
)

const (
	MagicHeader string = `RMAR` // 4 байта
	Version1    uint32 = 1
)

// SessionFileHeader - точное представление заголовка файла в памяти.
// Только числа и массивы, поэтому binary.Write пишет его целиком.
type SessionFileHeader struct {
	Magic       [4]byte  // 4 байта
	Version     uint32   // 4 байта
	Seed        int64    // 8 байт
	Timestamp   int64    // 8 байт
	ActionCount int32    // 4 байта
	SessionID   [36]byte // канонический UUID, фиксированная длина
}

// ActionHeader - заголовок каждой записи команды.
type ActionHeader struct {
	Tick       int64  // 8
	ActionType uint8  // 1
	SourceLen  uint8  // 1
	PayloadLen uint16 // 2
}

// SessionStore пишет и читает записи сессий.
type SessionStore struct {
	SaveDir string
}

func NewSessionStore(dir string) *SessionStore {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.Mkdir(dir, 0755)
	}
	return &SessionStore{SaveDir: dir}
}

// Save сохраняет сессию в файл session_<seed>_<timestamp>.rmar.
func (s *SessionStore) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("session_%d_%d.rmar", session.Seed, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, session); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	if len(s.SessionID) != 36 {
		return fmt.Errorf("session id must be a canonical UUID, got %q", s.SessionID)
	}

	header := SessionFileHeader{
		Version:     Version1,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		ActionCount: int32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader)
	copy(header.SessionID[:], s.SessionID)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, act := range s.Actions {
		sourceBytes := []byte(act.Source)
		if len(sourceBytes) > 255 {
			return fmt.Errorf("source too long: %d", len(sourceBytes))
		}
		if len(act.Payload) > 65535 {
			return fmt.Errorf("payload too long: %d", len(act.Payload))
		}

		ah := ActionHeader{
			Tick:       act.Tick,
			ActionType: uint8(act.Action),
			SourceLen:  uint8(len(sourceBytes)),
			PayloadLen: uint16(len(act.Payload)),
		}
		if err := binary.Write(w, binary.LittleEndian, &ah); err != nil {
			return fmt.Errorf("failed to write action header: %w", err)
		}
		if _, err := w.Write(sourceBytes); err != nil {
			return err
		}
		if _, err := w.Write(act.Payload); err != nil {
			return err
		}
	}

	return nil
}

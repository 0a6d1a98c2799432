package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
)

func (s *SessionStore) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	var header SessionFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	session := &domain.ReplaySession{
		SessionID: string(header.SessionID[:]),
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Actions:   make([]domain.ReplayAction, header.ActionCount),
	}

	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("failed to read action %d: %w", i, err)
		}

		act := domain.ReplayAction{
			Tick:   ah.Tick,
			Action: domain.ActionType(ah.ActionType),
		}

		if ah.SourceLen > 0 {
			buf := make([]byte, ah.SourceLen)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("failed to read action %d source: %w", i, err)
			}
			act.Source = string(buf)
		}
		if ah.PayloadLen > 0 {
			act.Payload = make([]byte, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, fmt.Errorf("failed to read action %d payload: %w", i, err)
			}
		}

		session.Actions[i] = act
	}

	return session, nil
}

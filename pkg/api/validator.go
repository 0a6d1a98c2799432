package api

import (
	"errors"
	"fmt"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p SpawnPayload) Validate() error {
	switch p.Tag {
	case "", "RedCube", "Cube":
		return nil
	}
	return fmt.Errorf("unknown cube tag %q", p.Tag)
}

func (p EntityPayload) Validate() error {
	// Пустой targetId допустим: хендлер сам выберет цель
	if len(p.TargetID) > 64 {
		return errors.New("targetId is too long")
	}
	if p.TargetID != strings.TrimSpace(p.TargetID) {
		return errors.New("targetId must not have surrounding whitespace")
	}
	return nil
}

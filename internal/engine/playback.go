package engine

import (
	"context"
	"fmt"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/infrastructure/storage"
)

// graceTicks - запас после последней записанной команды,
// чтобы рука успела доиграть начатую задачу.
const graceTicks = 1800

// LoadSession читает запись сессии и готовит движок к реплею.
// Возвращает сервис, собранный с сидом из файла: спавнер повторит
// те же кубы в тех же местах.
func LoadSession(cfg Config, path string) (*Service, error) {
	store := storage.NewSessionStore(cfg.SessionDir)
	session, err := store.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", path, err)
	}

	cfg.Seed = session.Seed
	s := NewService(cfg)
	s.playback = true
	s.pending = session.Actions

	s.log.Infof("💿 Loaded session %s: %d commands, seed %d",
		session.SessionID, len(session.Actions), session.Seed)
	return s, nil
}

// RunPlayback прогоняет записанную сессию без vision-сервера
// и без пауз между тиками.
func (s *Service) RunPlayback(ctx context.Context) error {
	if !s.playback {
		return fmt.Errorf("service is not in playback mode")
	}

	endTick := int64(graceTicks)
	if n := len(s.pending); n > 0 {
		endTick = s.pending[n-1].Tick + graceTicks
	}

	for s.tick < endTick {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.step()
	}

	s.log.Infof("💿 Playback finished: %d ticks, %d cubes placed", s.tick, s.placed)
	return nil
}

// PlacedCount возвращает число уложенных кубов (для проверок реплея).
func (s *Service) PlacedCount() int { return s.placed }

// Tick возвращает текущий тик движка.
func (s *Service) Tick() int64 { return s.tick }

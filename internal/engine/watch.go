package engine

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

// WatchConfig следит за конфиг-файлом и на каждое изменение
// перечитывает его и зовет apply. Горячо применяются только
// настройки стрима - остальное требует рестарта.
// Блокируется до отмены контекста.
func WatchConfig(ctx context.Context, path string, apply func(StreamConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	log := logger.WithComponent("config")
	log.Infof("Watching %s for stream setting changes", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := LoadConfig(path)
			if err != nil {
				// Редакторы пишут файлы не атомарно, полуобрезанный
				// TOML - штатная ситуация. Ждем следующего события.
				log.WithError(err).Warn("Config reload skipped")
				continue
			}
			log.WithField("every", cfg.Stream.Every).
				WithField("quality", cfg.Stream.Quality).
				Info("♻️  Stream settings reloaded")
			apply(cfg.Stream)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("Config watcher error")
		}
	}
}

package handlers

import (
	"encoding/json"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/robot"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/scene"
)

// Context передает хендлеру состояние движка.
// Ссылки, не копии: хендлеры мутируют сцену и очередь контроллера.
type Context struct {
	Scene   *scene.Scene
	Robot   *robot.Controller
	Spawner *scene.Spawner

	// Tick текущий тик движка (для событий).
	Tick int64

	// Source - откуда пришла команда (vision / monitor / replay).
	// Некоторые команды ведут себя по-разному: idle от vision-сервера
	// это "ничего не вижу", idle с монитора - принудительный сброс.
	Source string

	// Emit - отгрузка события движку (может быть nil в тестах).
	Emit func(domain.Event)
}

// Result - результат выполнения команды.
// Хендлер НЕ пишет в журнал сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string // текст для журнала
	MsgType string // INFO, WARN, ERROR
}

// HandlerFunc - контракт для любой команды (MOVERED, PICKUP, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - пустой успешный ответ
func EmptyResult() Result {
	return Result{}
}

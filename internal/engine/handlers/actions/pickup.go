package actions

import (
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
)

// HandlePickup обрабатывает команду pickup - запуск подбора
// головы очереди.
func HandlePickup(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Robot.BeginPick() {
		// Рука занята или очередь пуста. Сервер шлет pickup по своему
		// разумению, так что просто фиксируем факт.
		return handlers.Result{Msg: "Pickup requested, nothing to do", MsgType: "WARN"}, nil
	}
	return handlers.Result{Msg: "Pick sequence started", MsgType: "INFO"}, nil
}

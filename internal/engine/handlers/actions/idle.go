package actions

import (
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
)

// HandleIdle обрабатывает команду idle.
// От vision-сервера это фон ("красного не вижу") - ничего не делаем,
// рука сама доводит начатое. С монитора это принудительный сброс.
func HandleIdle(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Source != domain.SourceMonitor {
		return handlers.EmptyResult(), nil
	}

	if !ctx.Robot.ForceIdle() {
		return handlers.Result{Msg: "Cannot idle while holding a cube", MsgType: "WARN"}, nil
	}
	return handlers.Result{Msg: "Queue cleared, arm returning home", MsgType: "INFO"}, nil
}

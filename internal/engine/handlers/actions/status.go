package actions

import (
	"fmt"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
)

// HandleStatus возвращает однострочную сводку для журнала монитора.
func HandleStatus(ctx handlers.Context) (handlers.Result, error) {
	msg := fmt.Sprintf("phase=%s queued=%d cubes=%d",
		ctx.Robot.Phase(), len(ctx.Robot.QueueIDs()), ctx.Scene.CubeCount())
	return handlers.Result{Msg: msg, MsgType: "INFO"}, nil
}

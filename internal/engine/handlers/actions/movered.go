package actions

import (
	"fmt"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
)

// HandleMoveRed обрабатывает команду movered.
// Vision-сервер шлет ее без payload: в кадре видно красное, рука
// наводится на ближайший свободный красный куб. С монитора можно
// указать конкретный куб через targetId.
func HandleMoveRed(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	var cube *domain.Entity

	if p.TargetID != "" {
		cube = ctx.Scene.Get(domain.EntityID(p.TargetID))
		if cube == nil || cube.Cube == nil {
			return handlers.Result{}, fmt.Errorf("no such cube: %s", p.TargetID)
		}
	} else {
		cube = ctx.Scene.NearestFreeRedCube(ctx.Scene.Arm.Pos)
		if cube == nil {
			// Детектор видит красное, а свободных красных кубов нет -
			// значит все уже в очереди или в захвате. Это не ошибка.
			return handlers.EmptyResult(), nil
		}
	}

	if !ctx.Robot.Enqueue(cube) {
		return handlers.EmptyResult(), nil
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("Red cube %s queued for pickup", cube.ID),
		MsgType: "INFO",
	}, nil
}

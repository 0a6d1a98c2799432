package actions

import (
	"fmt"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
)

// HandleSpawn обрабатывает отладочный спавн куба с монитора.
func HandleSpawn(ctx handlers.Context, p api.SpawnPayload) (handlers.Result, error) {
	cube := ctx.Spawner.Spawn(ctx.Scene, p.Tag)
	if cube == nil {
		return handlers.Result{Msg: "No room for another cube", MsgType: "WARN"}, nil
	}

	if ctx.Emit != nil {
		ctx.Emit(domain.Event{
			Tick:   ctx.Tick,
			Kind:   domain.EventSpawn,
			Entity: cube.ID,
		})
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("Spawned %s (%s)", cube.ID, cube.Cube.Tag),
		MsgType: "INFO",
	}, nil
}

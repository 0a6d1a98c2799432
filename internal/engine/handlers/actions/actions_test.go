package actions

import (
	"testing"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/robot"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/scene"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
)

func testCtx(source string) handlers.Context {
	s := scene.New()
	sp := scene.NewSpawner(3, 1, 1.0, 100)
	return handlers.Context{
		Scene:   s,
		Robot:   robot.NewController(s, nil),
		Spawner: sp,
		Source:  source,
	}
}

func TestHandleMoveRedQueuesNearest(t *testing.T) {
	ctx := testCtx(domain.SourceVision)
	cube := ctx.Spawner.Spawn(ctx.Scene, domain.TagRedCube)

	res, err := HandleMoveRed(ctx, api.EntityPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Msg == "" {
		t.Error("expected a log message on successful queue")
	}
	if !cube.Cube.Queued {
		t.Error("cube must be flagged as queued")
	}

	// Повтор: свободных красных больше нет, тихий no-op
	res, err = HandleMoveRed(ctx, api.EntityPayload{})
	if err != nil || res.Msg != "" {
		t.Errorf("repeat movered must be silent, got msg=%q err=%v", res.Msg, err)
	}
}

func TestHandleMoveRedExplicitTarget(t *testing.T) {
	ctx := testCtx(domain.SourceMonitor)
	first := ctx.Spawner.Spawn(ctx.Scene, domain.TagRedCube)
	second := ctx.Spawner.Spawn(ctx.Scene, domain.TagRedCube)

	// Явная цель перекрывает выбор ближайшего
	_, err := HandleMoveRed(ctx, api.EntityPayload{TargetID: second.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cube.Queued {
		t.Error("explicit target must be queued")
	}
	if first.Cube.Queued {
		t.Error("non-target cube must stay free")
	}

	// Несуществующий объект - ошибка, а не тихий no-op
	if _, err := HandleMoveRed(ctx, api.EntityPayload{TargetID: "cube_9999"}); err == nil {
		t.Error("unknown targetId must be rejected")
	}
}

func TestHandleMoveRedNoCubes(t *testing.T) {
	ctx := testCtx(domain.SourceVision)
	res, err := HandleMoveRed(ctx, api.EntityPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Msg != "" {
		t.Errorf("no cubes is not an error, got %q", res.Msg)
	}
}

func TestHandlePickupEmptyQueue(t *testing.T) {
	ctx := testCtx(domain.SourceVision)
	res, err := HandlePickup(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MsgType != "WARN" {
		t.Errorf("pickup on empty queue should warn, got %q", res.MsgType)
	}
}

func TestHandleIdleSourceBehavior(t *testing.T) {
	// idle от vision-сервера - фон, не трогает очередь
	ctx := testCtx(domain.SourceVision)
	cube := ctx.Spawner.Spawn(ctx.Scene, domain.TagRedCube)
	ctx.Robot.Enqueue(cube)

	if _, err := HandleIdle(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctx.Robot.QueueIDs()) != 1 {
		t.Error("vision idle must not clear the queue")
	}

	// idle с монитора - принудительный сброс
	ctx.Source = domain.SourceMonitor
	if _, err := HandleIdle(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctx.Robot.QueueIDs()) != 0 {
		t.Error("monitor idle must clear the queue")
	}
}

func TestHandleSpawnWithTag(t *testing.T) {
	ctx := testCtx(domain.SourceMonitor)
	var events []domain.Event
	ctx.Emit = func(e domain.Event) { events = append(events, e) }

	res, err := HandleSpawn(ctx, api.SpawnPayload{Tag: domain.TagRedCube})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MsgType != "INFO" {
		t.Errorf("expected INFO result, got %q", res.MsgType)
	}
	if ctx.Scene.CubeCount() != 1 {
		t.Errorf("expected 1 cube, got %d", ctx.Scene.CubeCount())
	}
	if len(events) != 1 || events[0].Kind != domain.EventSpawn {
		t.Errorf("expected a SPAWN event, got %v", events)
	}
}

func TestHandleStatusSummary(t *testing.T) {
	ctx := testCtx(domain.SourceMonitor)
	res, err := HandleStatus(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Msg == "" {
		t.Error("status must produce a summary line")
	}
}

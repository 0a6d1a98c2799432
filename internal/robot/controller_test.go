package robot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/scene"
)

func newTestRig(emit func(domain.Event)) (*scene.Scene, *scene.Spawner, *Controller) {
	s := scene.New()
	sp := scene.NewSpawner(7, 1, 0, 100)
	c := NewController(s, emit)
	c.Speed = 0.2 // быстрее, чтобы тесты не крутили тысячи тиков
	return s, sp, c
}

// runTicks крутит контроллер до предиката или до лимита тиков.
func runTicks(t *testing.T, c *Controller, s *scene.Scene, limit int, done func() bool) {
	t.Helper()
	for tick := 0; tick < limit; tick++ {
		c.Tick(int64(tick))
		s.Sweep()
		if done() {
			return
		}
	}
	t.Fatalf("condition not reached after %d ticks, phase=%s", limit, c.Phase())
}

func TestEnqueueDeduplicates(t *testing.T) {
	s, sp, c := newTestRig(nil)
	cube := sp.Spawn(s, domain.TagRedCube)

	assert.True(t, c.Enqueue(cube), "first enqueue must succeed")
	assert.False(t, c.Enqueue(cube), "same cube must not be queued twice")
	assert.Len(t, c.QueueIDs(), 1)

	other := sp.Spawn(s, domain.TagRedCube)
	assert.True(t, c.Enqueue(other))
	assert.Equal(t, []string{cube.ID.String(), other.ID.String()}, c.QueueIDs())
}

func TestEnqueueRejectsRemovedAndHeld(t *testing.T) {
	s, sp, c := newTestRig(nil)

	gone := sp.Spawn(s, domain.TagRedCube)
	gone.Removed = true
	assert.False(t, c.Enqueue(gone))

	held := sp.Spawn(s, domain.TagRedCube)
	held.Cube.Held = true
	assert.False(t, c.Enqueue(held))

	assert.False(t, c.Enqueue(nil))
}

func TestHoverOnEnqueueWhenIdle(t *testing.T) {
	s, sp, c := newTestRig(nil)
	cube := sp.Spawn(s, domain.TagRedCube)

	require.True(t, c.Enqueue(cube))
	assert.Equal(t, PhaseHover, c.Phase())

	// Рука сходится к точке над кубом и остается там
	for i := 0; i < 200; i++ {
		c.Tick(int64(i))
	}
	hover := cube.Pos
	hover.Y = HoverHeight
	assert.InDelta(t, 0, float64(s.Arm.Pos.DistanceTo(hover)), 0.05)
	assert.Equal(t, PhaseHover, c.Phase(), "hover must wait for pickup command")
}

func TestFullPickAndPlaceSequence(t *testing.T) {
	var events []domain.Event
	s, sp, c := newTestRig(func(e domain.Event) { events = append(events, e) })
	cube := sp.Spawn(s, domain.TagRedCube)
	cubeID := cube.ID

	require.True(t, c.Enqueue(cube))
	require.True(t, c.BeginPick())

	runTicks(t, c, s, 500, func() bool {
		return c.Phase() == PhaseIdle && len(c.QueueIDs()) == 0
	})

	// Куб убран со сцены
	assert.Nil(t, s.Get(cubeID), "cube must be removed after release")
	assert.Equal(t, domain.EntityID(""), c.Holding())

	// Триггеры анимации: захват, потом отпускание
	require.Len(t, events, 2)
	assert.Equal(t, domain.TriggerGrip, events[0].Trigger)
	assert.Equal(t, domain.TriggerRelease, events[1].Trigger)
	assert.Equal(t, cubeID, events[0].Entity)

	// Рука вернулась домой
	assert.InDelta(t, 0, float64(s.Arm.Pos.DistanceTo(scene.ArmHomePos)), 0.05)
}

func TestHeldCubeFollowsEffector(t *testing.T) {
	s, sp, c := newTestRig(nil)
	cube := sp.Spawn(s, domain.TagRedCube)

	require.True(t, c.Enqueue(cube))
	require.True(t, c.BeginPick())

	runTicks(t, c, s, 500, func() bool { return c.Holding() == cube.ID })

	// Пока куб в захвате, он едет вместе с эффектором
	for i := 0; i < 5; i++ {
		c.Tick(int64(i))
		if c.Holding() != cube.ID {
			break
		}
		dist := s.Arm.Pos.DistanceTo(cube.Pos)
		assert.Lessf(t, dist, float32(0.1), "held cube drifted %f away on tick %d", dist, i)
	}
}

func TestQueueDrainsSequentially(t *testing.T) {
	s, sp, c := newTestRig(nil)
	first := sp.Spawn(s, domain.TagRedCube)
	second := sp.Spawn(s, domain.TagRedCube)

	require.True(t, c.Enqueue(first))
	require.True(t, c.Enqueue(second))
	require.True(t, c.BeginPick())

	// Одной команды pickup достаточно: очередь разгружается сама
	runTicks(t, c, s, 2000, func() bool {
		return s.CubeCount() == 0 && c.Phase() == PhaseIdle
	})
	assert.Empty(t, c.QueueIDs())
}

func TestTargetRemovedMidTaskAborts(t *testing.T) {
	s, sp, c := newTestRig(nil)
	cube := sp.Spawn(s, domain.TagRedCube)

	require.True(t, c.Enqueue(cube))
	require.True(t, c.BeginPick())

	// Пара тиков навстречу цели, затем цель исчезает
	c.Tick(0)
	c.Tick(1)
	s.Remove(cube.ID)
	s.Sweep()

	runTicks(t, c, s, 500, func() bool { return c.Phase() == PhaseIdle })
	assert.Equal(t, domain.EntityID(""), c.Holding())
	assert.InDelta(t, 0, float64(s.Arm.Pos.DistanceTo(scene.ArmHomePos)), 0.05)
}

func TestBeginPickOnEmptyQueue(t *testing.T) {
	_, _, c := newTestRig(nil)
	assert.False(t, c.BeginPick())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestForceIdleClearsQueue(t *testing.T) {
	s, sp, c := newTestRig(nil)
	cube := sp.Spawn(s, domain.TagRedCube)

	require.True(t, c.Enqueue(cube))
	require.True(t, c.ForceIdle())

	runTicks(t, c, s, 500, func() bool { return c.Phase() == PhaseIdle })
	assert.Empty(t, c.QueueIDs())
	assert.False(t, cube.Cube.Queued, "queued flag must be released")

	// Куб снова доступен для постановки
	assert.True(t, c.Enqueue(cube))
}

func TestForceIdleRefusedWhileHolding(t *testing.T) {
	s, sp, c := newTestRig(nil)
	cube := sp.Spawn(s, domain.TagRedCube)

	require.True(t, c.Enqueue(cube))
	require.True(t, c.BeginPick())
	runTicks(t, c, s, 500, func() bool { return c.Holding() == cube.ID })

	assert.False(t, c.ForceIdle(), "cannot idle with a cube in the gripper")
}

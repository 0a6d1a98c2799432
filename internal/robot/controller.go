package robot

import (
	"github.com/sirupsen/logrus"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/scene"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

// Геометрия движений руки
const (
	// HoverHeight - высота эффектора над целью при наведении
	HoverHeight = 0.8

	// gripOffset - насколько эффектор опускается к центру куба при захвате
	gripOffset = 0.05

	// arriveEps - дистанция, с которой цель считается достигнутой
	arriveEps = 0.02

	// DefaultSpeed - мировых единиц за тик (1.5 u/s при 30 Гц)
	DefaultSpeed = 0.05
)

// Controller - контроллер pick-and-place. Последовательная машина фаз:
// одна задача за раз, остальные ждут в очереди. Все вызовы идут из
// цикла движка, блокировок нет.
type Controller struct {
	scene *scene.Scene
	log   *logrus.Entry

	// Speed - скорость эффектора, мировых единиц за тик.
	Speed float32

	// queue - кубы, ожидающие подбора, в порядке поступления.
	// Инвариант: куб попадает сюда не больше одного раза
	// (флаг Queued на компоненте куба).
	queue []domain.EntityID

	phase   Phase
	target  domain.EntityID // куб текущей задачи
	holding domain.EntityID // куб в захвате ("" = захват открыт)

	// emit - отгрузка событий (триггеры анимации) наружу
	emit func(domain.Event)
}

// NewController создает контроллер для сцены.
// emit может быть nil, если события никому не нужны.
func NewController(s *scene.Scene, emit func(domain.Event)) *Controller {
	return &Controller{
		scene: s,
		log:   logger.WithComponent("robot"),
		Speed: DefaultSpeed,
		emit:  emit,
	}
}

func (c *Controller) Phase() Phase             { return c.phase }
func (c *Controller) Holding() domain.EntityID { return c.holding }

// QueueIDs возвращает очередь для монитора (копия).
func (c *Controller) QueueIDs() []string {
	ids := make([]string, 0, len(c.queue))
	for _, id := range c.queue {
		ids = append(ids, id.String())
	}
	return ids
}

// Enqueue ставит куб в очередь на подбор.
// Возвращает false, если куб уже в очереди или в захвате - повторная
// команда movered на тот же куб не плодит дубликаты задач.
func (c *Controller) Enqueue(cube *domain.Entity) bool {
	if cube == nil || cube.Cube == nil || cube.Removed {
		return false
	}
	if cube.Cube.Queued || cube.Cube.Held {
		return false
	}

	cube.Cube.Queued = true
	c.queue = append(c.queue, cube.ID)
	c.log.WithField("cube", cube.ID).Info("Cube queued for pickup")

	// Рука свободна - сразу наводимся на голову очереди,
	// как это делал оригинальный обработчик movered.
	if c.phase == PhaseIdle {
		c.target = c.queue[0]
		c.phase = PhaseHover
	}
	return true
}

// BeginPick запускает подбор головы очереди.
// false - если рука занята задачей или очередь пуста.
func (c *Controller) BeginPick() bool {
	if c.phase != PhaseIdle && c.phase != PhaseHover {
		return false
	}
	if len(c.queue) == 0 {
		return false
	}

	c.target = c.queue[0]
	c.queue = c.queue[1:]
	c.phase = PhaseMoveToTarget
	c.log.WithField("cube", c.target).Info("🦾 Pick sequence started")
	return true
}

// ForceIdle сбрасывает очередь и возвращает руку домой.
// Задачу с кубом в захвате прервать нельзя: сначала донести.
func (c *Controller) ForceIdle() bool {
	if c.holding != "" {
		return false
	}
	for _, id := range c.queue {
		if cube := c.scene.Get(id); cube != nil && cube.Cube != nil {
			cube.Cube.Queued = false
		}
	}
	c.queue = nil
	if cube := c.liveTarget(); cube != nil {
		cube.Cube.Queued = false
	}
	if c.phase != PhaseIdle {
		c.target = ""
		c.phase = PhaseReturn
	}
	return true
}

// Tick двигает машину фаз на один шаг.
func (c *Controller) Tick(tick int64) {
	arm := c.scene.Arm

	switch c.phase {
	case PhaseIdle:
		arm.Pos = arm.Pos.MoveToward(scene.ArmHomePos, c.Speed)

	case PhaseHover:
		cube := c.liveTarget()
		if cube == nil {
			c.abortTask()
			return
		}
		arm.Pos = arm.Pos.MoveToward(c.above(cube.Pos), c.Speed)

	case PhaseMoveToTarget:
		cube := c.liveTarget()
		if cube == nil {
			c.abortTask()
			return
		}
		if c.step(arm, c.above(cube.Pos)) {
			c.phase = PhaseDescend
		}

	case PhaseDescend:
		cube := c.liveTarget()
		if cube == nil {
			c.abortTask()
			return
		}
		grip := cube.Pos
		grip.Y += gripOffset
		if c.step(arm, grip) {
			c.phase = PhaseGrip
		}

	case PhaseGrip:
		cube := c.liveTarget()
		if cube == nil {
			c.abortTask()
			return
		}
		cube.Cube.Held = true
		cube.Cube.Queued = false
		c.holding = cube.ID
		c.fire(tick, domain.TriggerGrip, cube.ID)
		c.phase = PhaseLift

	case PhaseLift:
		c.carry(arm)
		if c.step(arm, c.above(arm.Pos)) {
			c.phase = PhaseMoveToBin
		}

	case PhaseMoveToBin:
		c.carry(arm)
		if c.step(arm, c.above(scene.BinPos)) {
			c.phase = PhaseRelease
		}

	case PhaseRelease:
		if c.holding != "" {
			c.fire(tick, domain.TriggerRelease, c.holding)
			c.scene.Remove(c.holding)
			c.log.WithField("cube", c.holding).Info("📦 Cube placed in bin")
			c.holding = ""
		}
		c.phase = PhaseReturn

	case PhaseReturn:
		if c.step(arm, scene.ArmHomePos) {
			c.finishTask()
		}
	}
}

// step двигает эффектор к цели, true = пришли.
func (c *Controller) step(arm *domain.Entity, target domain.Vector3) bool {
	arm.Pos = arm.Pos.MoveToward(target, c.Speed)
	return arm.Pos.DistanceTo(target) <= arriveEps
}

// carry тащит зажатый куб за эффектором.
func (c *Controller) carry(arm *domain.Entity) {
	if c.holding == "" {
		return
	}
	if cube := c.scene.Get(c.holding); cube != nil {
		cube.Pos = arm.Pos
		cube.Pos.Y -= gripOffset
	}
}

// above возвращает точку наведения над позицией.
func (c *Controller) above(p domain.Vector3) domain.Vector3 {
	p.Y = HoverHeight
	return p
}

// liveTarget возвращает куб текущей задачи, если он еще на сцене.
func (c *Controller) liveTarget() *domain.Entity {
	cube := c.scene.Get(c.target)
	if cube == nil || cube.Removed || cube.Cube == nil {
		return nil
	}
	return cube
}

// abortTask бросает текущую задачу и возвращает руку домой.
// Куб исчез со сцены - значит и из очереди его чистить не надо,
// но голову очереди с протухшим ID выкидываем.
func (c *Controller) abortTask() {
	c.log.WithField("cube", c.target).Warn("Task aborted, target gone")
	c.dropStale()
	c.target = ""
	c.phase = PhaseReturn
}

// finishTask закрывает задачу и, если очередь не пуста, берет следующую.
// Отдельная команда pickup нужна только для первого куба: очередь
// последовательная и разгружается сама.
func (c *Controller) finishTask() {
	c.target = ""
	c.phase = PhaseIdle
	c.dropStale()
	if len(c.queue) > 0 {
		c.BeginPick()
	}
}

// dropStale выкидывает из головы очереди кубы, исчезнувшие со сцены.
func (c *Controller) dropStale() {
	for len(c.queue) > 0 {
		cube := c.scene.Get(c.queue[0])
		if cube != nil && !cube.Removed {
			return
		}
		c.queue = c.queue[1:]
	}
}

func (c *Controller) fire(tick int64, trigger string, id domain.EntityID) {
	if c.emit == nil {
		return
	}
	c.emit(domain.Event{
		Tick:    tick,
		Kind:    domain.EventTrigger,
		Trigger: trigger,
		Entity:  id,
	})
}

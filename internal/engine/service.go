package engine

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers/actions"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/infrastructure/storage"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/network"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/render"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/robot"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/scene"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/vision"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

// Service связывает сцену, контроллер руки, камеру и vision-клиента
// в один кооперативный цикл. Все мутации состояния происходят в
// горутине цикла: команды снаружи идут через CommandChan.
type Service struct {
	Cfg Config

	Scene   *scene.Scene
	Robot   *robot.Controller
	Spawner *scene.Spawner
	Camera  render.Camera
	Vision  *vision.Client
	Hub     *network.Broadcaster

	CommandChan chan domain.InternalCommand

	handlers map[domain.ActionType]handlers.HandlerFunc
	log      *logrus.Entry

	// Буферы текущего слепка. Чистятся после рассылки.
	logs   []api.LogEntry
	events []domain.Event

	// session накапливает команды для записи. Пишется только из цикла.
	session *domain.ReplaySession

	tick   int64
	placed int // кубов уложено в корзину за сессию

	// Горячо перезагружаемые настройки стрима
	streamEvery atomic.Int64
	quality     atomic.Int64

	// playback - реплей без vision-сервера и без отправки кадров
	playback bool
	pending  []domain.ReplayAction

	// done закрывается при выходе из Run. Пока цикл жив, запись
	// сессии трогать нельзя: SaveSession ждет этот канал.
	done chan struct{}
}

// NewService собирает движок по конфигу.
func NewService(cfg Config) *Service {
	s := &Service{
		Cfg:         cfg,
		Camera:      render.DefaultCamera(),
		Hub:         network.NewBroadcaster(),
		CommandChan: make(chan domain.InternalCommand, 100),
		handlers:    make(map[domain.ActionType]handlers.HandlerFunc),
		log:         logger.WithComponent("engine"),
		done:        make(chan struct{}),
		session: &domain.ReplaySession{
			SessionID: uuid.NewString(),
			Seed:      cfg.Seed,
			Timestamp: time.Now().Unix(),
		},
	}

	s.Scene = scene.New()
	s.Spawner = scene.NewSpawner(cfg.Seed, cfg.Spawn.Interval, cfg.Spawn.RedChance, cfg.Spawn.MaxCubes)
	s.Robot = robot.NewController(s.Scene, s.recordEvent)
	s.Robot.Speed = cfg.ArmSpeed

	s.Vision = vision.New(cfg.VisionClientConfig(), func(cmd string) {
		s.ProcessCommand(api.ClientCommand{Action: cmd}, domain.SourceVision)
	})

	s.ApplyStreamSettings(cfg.Stream)
	s.registerHandlers()
	return s
}

func (s *Service) registerHandlers() {
	s.handlers[domain.ActionMoveRed] = handlers.WithPayload(actions.HandleMoveRed)
	s.handlers[domain.ActionPickup] = handlers.WithEmptyPayload(actions.HandlePickup)
	s.handlers[domain.ActionIdle] = handlers.WithEmptyPayload(actions.HandleIdle)
	s.handlers[domain.ActionSpawn] = handlers.WithPayload(actions.HandleSpawn)
	s.handlers[domain.ActionStatus] = handlers.WithEmptyPayload(actions.HandleStatus)
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
}

// ApplyStreamSettings применяет секцию stream на лету.
// Зовется из горутины конфиг-вотчера, поэтому атомики.
func (s *Service) ApplyStreamSettings(cfg StreamConfig) {
	if cfg.Every > 0 {
		s.streamEvery.Store(cfg.Every)
	}
	if cfg.Quality >= 1 && cfg.Quality <= 100 {
		s.quality.Store(int64(cfg.Quality))
	}
}

// ProcessCommand принимает команду от внешнего мира (vision или монитор).
func (s *Service) ProcessCommand(cmd api.ClientCommand, source string) {
	actionType := domain.ParseAction(cmd.Action)
	if actionType == domain.ActionUnknown {
		s.log.WithFields(logrus.Fields{
			"action": cmd.Action,
			"source": source,
		}).Warn("Unknown command, ignoring")
		return
	}

	internal := domain.InternalCommand{
		Action:  actionType,
		Source:  source,
		Payload: cmd.Payload,
	}

	select {
	case s.CommandChan <- internal:
	default:
		// Канал забит - движок не успевает. Команду честнее потерять,
		// чем подвесить горутину vision-клиента.
		s.log.WithField("action", actionType).Warn("Command channel full, dropping")
	}
}

// Run крутит цикл движка до отмены контекста.
func (s *Service) Run(ctx context.Context) {
	defer close(s.done)

	s.log.Infof("⚙️  Engine loop started: %d Hz, seed %d", s.Cfg.TickRate, s.Cfg.Seed)

	if !s.playback {
		go s.Vision.Run(ctx)
	}

	ticker := time.NewTicker(s.Cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Engine loop stopped")
			return
		case <-ticker.C:
			s.step()
		}
	}
}

// step - один тик: команды, спавн, рука, уборка, кадр, слепок.
func (s *Service) step() {
	s.tick++

	s.drainCommands()

	if cube := s.Spawner.Tick(s.tick, s.Scene); cube != nil {
		s.recordEvent(domain.Event{Tick: s.tick, Kind: domain.EventSpawn, Entity: cube.ID})
		s.log.WithField("cube", cube.ID).Debugf("Spawned %s", cube.Cube.Tag)
	}

	s.Robot.Tick(s.tick)
	s.Scene.Sweep()

	if !s.playback && s.tick%s.streamEvery.Load() == 0 {
		s.streamFrame()
	}

	s.publish()
}

// drainCommands выгребает все накопившиеся команды.
// В реплее сперва подаются записанные команды, чей тик настал.
func (s *Service) drainCommands() {
	for len(s.pending) > 0 && s.pending[0].Tick <= s.tick {
		act := s.pending[0]
		s.pending = s.pending[1:]
		s.execute(domain.InternalCommand{
			Action:  act.Action,
			Source:  domain.SourceReplay,
			Payload: act.Payload,
		})
	}

	for {
		select {
		case cmd := <-s.CommandChan:
			s.execute(cmd)
		default:
			return
		}
	}
}

// execute выполняет хендлер, пишет журнал и запись сессии.
func (s *Service) execute(cmd domain.InternalCommand) {
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		return
	}

	// INIT и STATUS не мутируют сцену, в запись сессии они не нужны
	if cmd.Source != domain.SourceReplay &&
		cmd.Action != domain.ActionInit && cmd.Action != domain.ActionStatus {
		s.session.Actions = append(s.session.Actions, domain.ReplayAction{
			Tick:    s.tick,
			Action:  cmd.Action,
			Source:  cmd.Source,
			Payload: cmd.Payload,
		})
	}

	ctx := handlers.Context{
		Scene:   s.Scene,
		Robot:   s.Robot,
		Spawner: s.Spawner,
		Tick:    s.tick,
		Source:  cmd.Source,
		Emit:    s.recordEvent,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		s.AddLog(err.Error(), "ERROR")
		return
	}
	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = "INFO"
		}
		s.AddLog(result.Msg, msgType)
	}
}

// streamFrame рендерит сцену и отдает JPEG vision-клиенту.
// Если соединения нет, кадр выбрасывается - очередей не держим.
func (s *Service) streamFrame() {
	img := render.Frame(s.Camera, s.Scene)

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: int(s.quality.Load())}
	if err := jpeg.Encode(&buf, img, opts); err != nil {
		s.log.WithError(err).Error("JPEG encode failed")
		return
	}

	s.Vision.Offer(buf.Bytes())
}

// recordEvent складывает событие в буфер слепка и ведет счетчики.
func (s *Service) recordEvent(e domain.Event) {
	s.events = append(s.events, e)
	if e.Kind == domain.EventTrigger && e.Trigger == domain.TriggerRelease {
		s.placed++
	}
}

// publish рассылает слепок наблюдателям и чистит буферы.
func (s *Service) publish() {
	if s.Hub.SubscriberCount() > 0 {
		s.Hub.Broadcast(s.Snapshot())
	}
	s.logs = nil
	s.events = nil
}

// Snapshot строит DTO текущего состояния сцены.
func (s *Service) Snapshot() api.Snapshot {
	snap := api.Snapshot{
		Type:   "UPDATE",
		Tick:   s.tick,
		Vision: s.Vision.Status(),
		Queue:  s.Robot.QueueIDs(),
	}

	snap.Arm.Phase = s.Robot.Phase().String()
	snap.Arm.Holding = s.Robot.Holding().String()
	snap.Arm.Pos.X = s.Scene.Arm.Pos.X
	snap.Arm.Pos.Y = s.Scene.Arm.Pos.Y
	snap.Arm.Pos.Z = s.Scene.Arm.Pos.Z

	for _, cube := range s.Scene.Cubes() {
		view := api.CubeView{
			ID:     cube.ID.String(),
			Tag:    cube.Cube.Tag,
			Queued: cube.Cube.Queued,
			Held:   cube.Cube.Held,
		}
		view.Pos.X = cube.Pos.X
		view.Pos.Y = cube.Pos.Y
		view.Pos.Z = cube.Pos.Z
		view.Color.R = cube.Render.Color.R
		view.Color.G = cube.Render.Color.G
		view.Color.B = cube.Render.Color.B
		snap.Cubes = append(snap.Cubes, view)
	}

	for _, e := range s.events {
		snap.Events = append(snap.Events, api.EventView{
			Tick:    e.Tick,
			Kind:    e.Kind,
			Trigger: e.Trigger,
			Entity:  e.Entity.String(),
		})
	}

	snap.Logs = append(snap.Logs, s.logs...)
	return snap
}

// AddLog добавляет запись в журнал текущего слепка.
func (s *Service) AddLog(text, logType string) {
	s.logs = append(s.logs, api.LogEntry{
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Done возвращает канал, закрываемый после остановки цикла движка.
// Запись сессии мутируется только из цикла, поэтому перед SaveSession
// нужно дождаться этого канала.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// SaveSession сохраняет запись сессии на диск.
// Зовется после остановки цикла (см. Done).
func (s *Service) SaveSession() (string, error) {
	if len(s.session.Actions) == 0 {
		return "", nil
	}
	store := storage.NewSessionStore(s.Cfg.SessionDir)
	path, err := store.Save(s.session)
	if err != nil {
		return "", err
	}
	s.log.WithField("path", path).Infof("💾 Session saved (%d commands, %d cubes placed)",
		len(s.session.Actions), s.placed)
	return path, nil
}

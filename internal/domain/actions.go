package domain

import "strings"

// ActionType - внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionIdle
	ActionMoveRed
	ActionPickup
	ActionSpawn
	ActionStatus
)

// Маппинг провод/монитор -> Domain.
// Команды vision-сервера приходят в нижнем регистре ("movered"),
// монитор шлет верхний ("SPAWN") - парсим без учета регистра.
var actionStringToCmd = map[string]ActionType{
	"init":    ActionInit,
	"idle":    ActionIdle,
	"movered": ActionMoveRed,
	"pickup":  ActionPickup,
	"spawn":   ActionSpawn,
	"status":  ActionStatus,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:    "INIT",
	ActionIdle:    "IDLE",
	ActionMoveRed: "MOVERED",
	ActionPickup:  "PICKUP",
	ActionSpawn:   "SPAWN",
	ActionStatus:  "STATUS",
}

// ParseAction конвертирует строку команды в ActionType
func ParseAction(s string) ActionType {
	lower := strings.ToLower(strings.TrimSpace(s))
	if val, ok := actionStringToCmd[lower]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

package robot

// Phase - фаза контроллера. Активна ровно одна, переходы только
// вперед по циклу (плюс аварийный сброс в Return).
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseHover
	PhaseMoveToTarget
	PhaseDescend
	PhaseGrip
	PhaseLift
	PhaseMoveToBin
	PhaseRelease
	PhaseReturn
)

var phaseNames = map[Phase]string{
	PhaseIdle:         "IDLE",
	PhaseHover:        "HOVER",
	PhaseMoveToTarget: "MOVE_TO_TARGET",
	PhaseDescend:      "DESCEND",
	PhaseGrip:         "GRIP",
	PhaseLift:         "LIFT",
	PhaseMoveToBin:    "MOVE_TO_BIN",
	PhaseRelease:      "RELEASE",
	PhaseReturn:       "RETURN",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

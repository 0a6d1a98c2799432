package actions

import (
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine/handlers"
)

// HandleInit - рукопожатие нового наблюдателя. Состояние он получит
// со следующим слепком, здесь только отметка в журнале.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{Msg: "Observer connected", MsgType: "INFO"}, nil
}

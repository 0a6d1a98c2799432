package server

import (
	"encoding/json"
	"net/http"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка.
// Только то, что безопасно читать из чужой горутины: атомики
// vision-клиента и счетчики хаба. Слепок сцены наблюдатели
// получают через /ws.
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/vision", h.handleVisionStatus)
	mux.HandleFunc("/debug/observers", h.handleObservers)
}

// /debug/vision - состояние канала к vision-серверу
func (h *DebugHandler) handleVisionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Vision.Status())
}

// /debug/observers - количество подключенных наблюдателей
func (h *DebugHandler) handleObservers(w http.ResponseWriter, r *http.Request) {
	type ObserverSummary struct {
		Count int `json:"count"`
	}
	writeJSON(w, ObserverSummary{Count: h.Service.Hub.SubscriberCount()})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}

package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
)

// TypedHandlerFunc - "чистый" хендлер, работающий с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому не нужны данные (IDLE, PICKUP)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload превращает типизированный хендлер в стандартный HandlerFunc,
// забирая на себя Unmarshal и валидацию.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		// Пустой payload допустим: структура остается нулевой,
		// Validate решит, годится ли это.
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return Result{}, fmt.Errorf("invalid payload format: %w", err)
			}
		}

		// Автоматическая валидация, если T реализует api.Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

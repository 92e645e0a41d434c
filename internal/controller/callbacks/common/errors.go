package common

import (
	"errors"

	"github.com/Freeeeeet/slot_swapper/internal/swap"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, swap.ErrNotFound):
		return "❌ Слот или предложение не найдены"
	case errors.Is(err, swap.ErrForbidden):
		return "❌ Это действие вам недоступно"
	case errors.Is(err, swap.ErrSelfSwap):
		return "❌ Нельзя обменяться с самим собой"
	case errors.Is(err, swap.ErrAlreadyResolved):
		return "ℹ️ На это предложение уже ответили"
	case errors.Is(err, swap.ErrStaleState):
		return "⚠️ Слоты изменились, обмен не выполнен. Попробуйте ещё раз или отклоните предложение"
	case errors.Is(err, swap.ErrInvalidState):
		return "❌ Слот сейчас недоступен для этого действия"
	case errors.Is(err, swap.ErrValidation):
		return "❌ Некорректные данные"
	case errors.Is(err, swap.ErrConflict):
		return "⚠️ Данные изменились одновременно с вами. Попробуйте ещё раз"
	default:
		return "❌ Произошла ошибка"
	}
}

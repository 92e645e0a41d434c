package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для создания слота
	StateNewSlotTitle UserState = "new_slot_title"
	StateNewSlotTime  UserState = "new_slot_time"
)

// Ключи временных данных диалога
const (
	DataSlotTitle = "title"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}

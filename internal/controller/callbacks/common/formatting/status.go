package formatting

import "github.com/Freeeeeet/slot_swapper/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetSlotStatusDisplay возвращает emoji и текст для статуса слота
func GetSlotStatusDisplay(status model.SlotStatus) StatusDisplay {
	displays := map[model.SlotStatus]StatusDisplay{
		model.SlotStatusBusy:        {"🔒", "Занят"},
		model.SlotStatusSwappable:   {"🔁", "На обмен"},
		model.SlotStatusSwapPending: {"⏳", "Ждёт ответа по обмену"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetProposalStatusDisplay возвращает emoji и текст для статуса предложения
func GetProposalStatusDisplay(status model.ProposalStatus) StatusDisplay {
	displays := map[model.ProposalStatus]StatusDisplay{
		model.ProposalStatusPending:  {"⏳", "Ожидает ответа"},
		model.ProposalStatusAccepted: {"✅", "Принято"},
		model.ProposalStatusRejected: {"🚫", "Отклонено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

package common

// Форматы callback data. Telegram ограничивает их 64 байтами.
const (
	CbNoop     = "noop"
	CbMySlots  = "my_slots"
	CbMarket   = "market"
	CbRequests = "requests"
	CbSlotNew  = "slot_new"

	CbSlotToggle        = "slot_toggle:"         // slot_toggle:slot_id
	CbSlotDelete        = "slot_delete:"         // slot_delete:slot_id
	CbSlotDeleteConfirm = "slot_delete_confirm:" // slot_delete_confirm:slot_id

	CbMarketOffer = "market_offer:" // market_offer:target_slot_id
	CbSwapPropose = "swap_propose:" // swap_propose:my_slot_id:target_slot_id
	CbSwapAccept  = "swap_accept:"  // swap_accept:proposal_uuid
	CbSwapReject  = "swap_reject:"  // swap_reject:proposal_uuid
)

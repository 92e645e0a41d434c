package formatting

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "слот"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "слота"
	}
	return "слотов"
}

// PluralizeProposals возвращает правильное склонение слова "предложение"
func PluralizeProposals(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "предложение"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "предложения"
	}
	return "предложений"
}

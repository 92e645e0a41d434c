package formatting

import (
	"fmt"
	"regexp"
	"time"
)

// SlotIntervalLayout формат, в котором пользователь вводит слот
const SlotIntervalLayout = "ДД.ММ.ГГГГ ЧЧ:ММ-ЧЧ:ММ"

var slotIntervalRe = regexp.MustCompile(`^\s*(\d{2}\.\d{2}\.\d{4})\s+(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*$`)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatSlotTime форматирует дату и интервал слота: "01.06.2026 (Пн) 09:00-10:00"
func FormatSlotTime(start, end time.Time) string {
	if start.Year() != end.Year() || start.YearDay() != end.YearDay() {
		return fmt.Sprintf("%s - %s", FormatDateTime(start), FormatDateTime(end))
	}
	return fmt.Sprintf("%s (%s) %s", start.Format("02.01.2006"), GetWeekdayShort(int(start.Weekday())), FormatTimeRange(start, end))
}

// ParseSlotInterval разбирает "ДД.ММ.ГГГГ ЧЧ:ММ-ЧЧ:ММ" в указанной зоне.
// Конец раньше начала означает переход через полночь.
func ParseSlotInterval(input string, loc *time.Location) (time.Time, time.Time, error) {
	m := slotIntervalRe.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("expected format %s", SlotIntervalLayout)
	}

	start, err := time.ParseInLocation("02.01.2006 15:04", m[1]+" "+m[2], loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := time.ParseInLocation("02.01.2006 15:04", m[1]+" "+m[3], loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end: %w", err)
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}

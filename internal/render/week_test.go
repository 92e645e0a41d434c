package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToWeekBounds(t *testing.T) {
	sunday := time.Date(2026, 6, 7, 15, 0, 0, 0, time.UTC)

	week := normalizeToWeekBounds(sunday)

	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), week.start)
	assert.Equal(t, time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC), week.end)
}

func TestCalculateHourRange(t *testing.T) {
	day := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	slots := []*model.Slot{
		{StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10*time.Hour + 30*time.Minute)},
		{StartTime: day.Add(14 * time.Hour), EndTime: day.Add(15 * time.Hour)},
	}

	hours := calculateHourRange(slots)

	assert.Equal(t, 8, hours.start)
	assert.Equal(t, 16, hours.end)
	assert.Equal(t, 9, hours.total)

	empty := calculateHourRange(nil)
	assert.Equal(t, defaultMinHour-hourPaddingTop, empty.start)
}

func TestSlotsInWeek(t *testing.T) {
	week := normalizeToWeekBounds(time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC))
	inside := &model.Slot{StartTime: time.Date(2026, 6, 7, 22, 0, 0, 0, time.UTC)}
	outside := &model.Slot{StartTime: time.Date(2026, 6, 8, 9, 0, 0, 0, time.UTC)}

	assert.Equal(t, []*model.Slot{inside}, slotsInWeek([]*model.Slot{inside, outside}, week))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Очень ...", truncate("Очень длинное название", 9))
}

func TestWeekImage(t *testing.T) {
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	slots := []*model.Slot{
		{ID: 1, Title: "Standup", StartTime: monday.Add(9 * time.Hour), EndTime: monday.Add(10 * time.Hour), Status: model.SlotStatusBusy},
		{ID: 2, Title: "Review", StartTime: monday.AddDate(0, 0, 2).Add(13 * time.Hour), EndTime: monday.AddDate(0, 0, 2).Add(14 * time.Hour), Status: model.SlotStatusSwappable},
		{ID: 3, Title: "Dentist", StartTime: monday.AddDate(0, 0, 4).Add(17 * time.Hour), EndTime: monday.AddDate(0, 0, 4).Add(18 * time.Hour), Status: model.SlotStatusSwapPending},
	}

	data, err := WeekImage(monday, slots, monday.Add(11*time.Hour))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

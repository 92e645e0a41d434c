package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/render"
	"github.com/spf13/cobra"
)

func renderWeekCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render-week",
		Short: "Render the week image for sample slots into a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			imageData, err := render.WeekImage(now, sampleSlots(now), now)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, imageData, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("Week image written to %s (%d bytes)\n", output, len(imageData))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "week.png", "output PNG file")
	return cmd
}

// sampleSlots строит по паре слотов каждого статуса на текущей неделе
func sampleSlots(now time.Time) []*model.Slot {
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	at := func(day, hour, minutes int) time.Time {
		return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minutes)*time.Minute)
	}

	return []*model.Slot{
		{ID: 1, Title: "Standup", StartTime: at(0, 9, 0), EndTime: at(0, 9, 30), Status: model.SlotStatusBusy},
		{ID: 2, Title: "On-call", StartTime: at(0, 14, 0), EndTime: at(0, 16, 0), Status: model.SlotStatusSwappable},
		{ID: 3, Title: "Review", StartTime: at(1, 10, 0), EndTime: at(1, 11, 0), Status: model.SlotStatusSwapPending},
		{ID: 4, Title: "Lecture", StartTime: at(2, 12, 0), EndTime: at(2, 13, 30), Status: model.SlotStatusBusy},
		{ID: 5, Title: "Gym", StartTime: at(3, 18, 0), EndTime: at(3, 19, 0), Status: model.SlotStatusSwappable},
		{ID: 6, Title: "Retro", StartTime: at(4, 16, 0), EndTime: at(4, 17, 0), Status: model.SlotStatusSwapPending},
		{ID: 7, Title: "Hike", StartTime: at(5, 8, 0), EndTime: at(5, 12, 0), Status: model.SlotStatusBusy},
	}
}

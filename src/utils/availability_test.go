package utils

import (
	"testing"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/models"

	"github.com/stretchr/testify/assert"
)

func TestSlotAvailable(t *testing.T) {
	assert.Equal(t, uint(3), SlotAvailable(10, 7))
	assert.Equal(t, uint(0), SlotAvailable(10, 10))
	assert.Equal(t, uint(0), SlotAvailable(10, 12))
	assert.Equal(t, uint(10), SlotAvailable(10, 0))
}

func TestSlotSelectableCapacity(t *testing.T) {
	slot := &models.TimeSlot{StartTime: "10:00", EndTime: "12:00", Capacity: 10}
	tomorrow := time.Now().In(config.IST).AddDate(0, 0, 1)
	now := time.Now()

	available := SlotAvailable(slot.Capacity, 7)
	assert.True(t, SlotSelectable(slot, tomorrow, 3, available, now))
	assert.False(t, SlotSelectable(slot, tomorrow, 4, available, now))
	assert.False(t, SlotSelectable(slot, tomorrow, 0, available, now))
}

func TestSlotSelectableSameDayCutoff(t *testing.T) {
	now := time.Date(2026, 3, 14, 11, 0, 0, 0, config.IST)
	today := now

	morning := &models.TimeSlot{StartTime: "09:00", EndTime: "11:00", Capacity: 10}
	afternoon := &models.TimeSlot{StartTime: "14:00", EndTime: "16:00", Capacity: 10}

	assert.False(t, SlotSelectable(morning, today, 2, 10, now))
	assert.True(t, SlotSelectable(afternoon, today, 2, 10, now))

	// past start times are fine on future dates
	tomorrow := now.AddDate(0, 0, 1)
	assert.True(t, SlotSelectable(morning, tomorrow, 2, 10, now))
}

func TestResolveActivityAlias(t *testing.T) {
	assert.Equal(t, "Scuba Diving", ResolveActivityAlias("scuba"))
	assert.Equal(t, "Jet Ski Ride", ResolveActivityAlias("jetski"))
	assert.Equal(t, "Sunset Cruise", ResolveActivityAlias("Sunset Cruise"))
}

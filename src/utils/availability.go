package utils

import (
	"fmt"
	"log"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"
)

type SlotAvailability struct {
	Slot       models.TimeSlot `json:"slot"`
	Booked     uint            `json:"booked"`
	Available  uint            `json:"available"`
	Selectable bool            `json:"selectable"`
}

// SlotAvailable computes remaining seats from confirmed participant
// counts. Never stored, recomputed on every read.
func SlotAvailable(capacity uint, booked uint) uint {
	if booked >= capacity {
		return 0
	}
	return capacity - booked
}

// SlotSelectable reports whether a slot can be picked for the party on
// the date. Same-day slots that already started in IST are excluded.
func SlotSelectable(slot *models.TimeSlot, date time.Time, partySize uint, available uint, now time.Time) bool {
	if partySize == 0 || available < partySize {
		return false
	}
	nowIST := now.In(config.IST)
	if date.Format(config.DATE_FORMAT) == nowIST.Format(config.DATE_FORMAT) {
		return slot.StartTime >= nowIST.Format(config.SLOT_TIME_FORMAT)
	}
	return true
}

// GetSlotBookedCount sums confirmed participants for the slot on the date.
func GetSlotBookedCount(slotID uint, date time.Time) (uint, error) {
	d := db.GetDb()
	var booked int64
	err := d.
		Model(&models.Booking{}).
		Select("COALESCE(SUM(total_participants), 0)").
		Where("time_slot_id = ? AND date = ?", slotID, date.Format(config.DATE_FORMAT)).
		Where("status = ?", types.BOOKING_CONFIRMED).
		Scan(&booked).
		Error
	if err != nil {
		return 0, err
	}
	return uint(booked), nil
}

// GetActivityAvailability returns per-slot availability for a date.
func GetActivityAvailability(activityID uint, date time.Time, partySize uint) ([]SlotAvailability, error) {
	d := db.GetDb()
	var slots []models.TimeSlot
	if err := d.
		Where(&models.TimeSlot{ActivityID: activityID}).
		Order("start_time ASC").
		Find(&slots).
		Error; err != nil {
		return nil, err
	}
	now := time.Now()
	results := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		booked, err := GetSlotBookedCount(slot.ID, date)
		if err != nil {
			log.Printf("Error counting bookings for slot %d: %s\n", slot.ID, err.Error())
			return nil, err
		}
		available := SlotAvailable(slot.Capacity, booked)
		results = append(results, SlotAvailability{
			Slot:       slot,
			Booked:     booked,
			Available:  available,
			Selectable: SlotSelectable(&slot, date, partySize, available, now),
		})
	}
	return results, nil
}

// activityAliases maps the marketing names used by the widget embed to
// canonical activity names in the catalog.
var activityAliases = map[string]string{
	"scuba":         "Scuba Diving",
	"scuba diving":  "Scuba Diving",
	"parasailing":   "Parasailing",
	"jet ski":       "Jet Ski Ride",
	"jetski":        "Jet Ski Ride",
	"banana ride":   "Banana Boat Ride",
	"kayaking":      "Kayaking",
	"river rafting": "River Rafting",
}

func ResolveActivityAlias(name string) string {
	if canonical, ok := activityAliases[name]; ok {
		return canonical
	}
	return name
}

// GetTimeSlotOptions lists selectable slots for an activity name as
// label/value pairs suitable for a dropdown.
func GetTimeSlotOptions(name string, date time.Time) ([]types.SlotOption, error) {
	d := db.GetDb()
	var activity models.Activity
	canonical := ResolveActivityAlias(name)
	err := d.
		Where("LOWER(name) = LOWER(?)", canonical).
		Where("is_active = ?", true).
		First(&activity).
		Error
	if err != nil {
		return []types.SlotOption{}, err
	}
	slots, err := GetActivityAvailability(activity.ID, date, 1)
	if err != nil {
		return []types.SlotOption{}, err
	}
	options := make([]types.SlotOption, 0, len(slots))
	for _, s := range slots {
		if !s.Selectable {
			continue
		}
		label := fmt.Sprintf("%s - %s", s.Slot.StartTime, s.Slot.EndTime)
		options = append(options, types.SlotOption{
			Label:     label,
			Value:     s.Slot.StartTime,
			SlotID:    s.Slot.ID,
			Available: int(s.Available),
		})
	}
	return options, nil
}

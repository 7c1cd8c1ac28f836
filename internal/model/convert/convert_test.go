package convert

import (
	"testing"
	"time"

	"github.com/LimHyeonGyu/wayferecicd/internal/model"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"

	"github.com/stretchr/testify/assert"
)

func TestMarkerRoundTrip(t *testing.T) {
	orig := core.Marker{
		MarkerID:   7,
		Email:      "alice@example.com",
		ScheduleID: 3,
		Lat:        37.5665,
		Lng:        126.978,
		Color:      core.ColorBlue,
		Confirmed:  false,
	}

	gormMarker := CoreToMarker(orig)
	assert.Equal(t, "BLUE", gormMarker.Color)

	back := MarkerToCore(gormMarker)
	assert.Equal(t, orig, back)
}

func TestMarkerToCore_ConfirmedColor(t *testing.T) {
	m := model.Marker{ID: 1, Color: "RED", Confirmed: true}

	c := MarkerToCore(m)

	assert.Equal(t, core.ColorRed, c.Color)
	assert.True(t, c.Confirmed)
}

func TestScheduleItemRoundTrip(t *testing.T) {
	orig := core.ScheduleItem{
		ItemID:    2,
		MarkerID:  7,
		Name:      "1 Sejong-daero, Jongno-gu, Seoul",
		Content:   "No details yet",
		Address:   "1 Sejong-daero, Jongno-gu, Seoul",
		ItemOrder: 4.0,
	}

	back := ScheduleItemToCore(CoreToScheduleItem(orig))
	assert.Equal(t, orig, back)
}

func TestScheduleRoundTrip_PreservesDate(t *testing.T) {
	planDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	orig := core.Schedule{ScheduleID: 5, RoomID: "room-1", Name: "Day 2", PlanDate: planDate}

	back := ScheduleToCore(CoreToSchedule(orig))

	assert.Equal(t, orig.ScheduleID, back.ScheduleID)
	assert.Equal(t, orig.RoomID, back.RoomID)
	assert.Equal(t, orig.Name, back.Name)
	assert.True(t, planDate.Equal(back.PlanDate))
}

func TestMemberRoomRoundTrip(t *testing.T) {
	orig := core.MemberRoom{ID: 9, Email: "bob@example.com", RoomID: "room-2", Color: core.ColorGreen}

	back := MemberRoomToCore(CoreToMemberRoom(orig))
	assert.Equal(t, orig, back)
}

// Package convert maps between the transport-neutral core types and the GORM
// models.
package convert

import (
	"time"

	"github.com/LimHyeonGyu/wayferecicd/internal/model"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"

	"gorm.io/datatypes"
)

// CoreToMarker converts a core marker to its GORM model.
func CoreToMarker(m core.Marker) model.Marker {
	return model.Marker{
		ID:         m.MarkerID,
		Email:      m.Email,
		ScheduleID: m.ScheduleID,
		Lat:        m.Lat,
		Lng:        m.Lng,
		Color:      string(m.Color),
		Confirmed:  m.Confirmed,
	}
}

// MarkerToCore converts a GORM marker to its core representation.
func MarkerToCore(m model.Marker) core.Marker {
	return core.Marker{
		MarkerID:   m.ID,
		Email:      m.Email,
		ScheduleID: m.ScheduleID,
		Lat:        m.Lat,
		Lng:        m.Lng,
		Color:      core.Color(m.Color),
		Confirmed:  m.Confirmed,
	}
}

// CoreToScheduleItem converts a core schedule item to its GORM model.
func CoreToScheduleItem(i core.ScheduleItem) model.ScheduleItem {
	return model.ScheduleItem{
		ID:        i.ItemID,
		MarkerID:  i.MarkerID,
		Name:      i.Name,
		Content:   i.Content,
		Address:   i.Address,
		ItemOrder: i.ItemOrder,
	}
}

// ScheduleItemToCore converts a GORM schedule item to its core representation.
func ScheduleItemToCore(i model.ScheduleItem) core.ScheduleItem {
	return core.ScheduleItem{
		ItemID:    i.ID,
		MarkerID:  i.MarkerID,
		Name:      i.Name,
		Content:   i.Content,
		Address:   i.Address,
		ItemOrder: i.ItemOrder,
	}
}

// CoreToSchedule converts a core schedule to its GORM model.
func CoreToSchedule(s core.Schedule) model.Schedule {
	return model.Schedule{
		ID:       s.ScheduleID,
		RoomID:   s.RoomID,
		Name:     s.Name,
		PlanDate: datatypes.Date(s.PlanDate),
	}
}

// ScheduleToCore converts a GORM schedule to its core representation.
func ScheduleToCore(s model.Schedule) core.Schedule {
	return core.Schedule{
		ScheduleID: s.ID,
		RoomID:     s.RoomID,
		Name:       s.Name,
		PlanDate:   time.Time(s.PlanDate),
	}
}

// CoreToRoom converts a core room to its GORM model.
func CoreToRoom(r core.Room) model.Room {
	return model.Room{
		RoomID:    r.RoomID,
		Title:     r.Title,
		Country:   r.Country,
		CreatedAt: r.CreatedAt,
	}
}

// RoomToCore converts a GORM room to its core representation.
func RoomToCore(r model.Room) core.Room {
	return core.Room{
		RoomID:    r.RoomID,
		Title:     r.Title,
		Country:   r.Country,
		CreatedAt: r.CreatedAt,
	}
}

// CoreToMember converts a core member to its GORM model.
func CoreToMember(m core.Member) model.Member {
	return model.Member{
		Email:    m.Email,
		Nickname: m.Nickname,
	}
}

// MemberToCore converts a GORM member to its core representation.
func MemberToCore(m model.Member) core.Member {
	return core.Member{
		Email:    m.Email,
		Nickname: m.Nickname,
	}
}

// CoreToMemberRoom converts a core membership to its GORM model.
func CoreToMemberRoom(mr core.MemberRoom) model.MemberRoom {
	return model.MemberRoom{
		ID:     mr.ID,
		Email:  mr.Email,
		RoomID: mr.RoomID,
		Color:  string(mr.Color),
	}
}

// MemberRoomToCore converts a GORM membership to its core representation.
func MemberRoomToCore(mr model.MemberRoom) core.MemberRoom {
	return core.MemberRoom{
		ID:     mr.ID,
		Email:  mr.Email,
		RoomID: mr.RoomID,
		Color:  core.Color(mr.Color),
	}
}

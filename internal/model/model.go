// Package model defines the GORM table models backing the trip-planning
// domain. Transport-neutral equivalents live in pkg/core; the convert
// subpackage maps between the two.
package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatabaseModels is a list of all the structs exported here which represent
// tables in the database schema, in migration order (referenced tables
// first).
var DatabaseModels = []interface{}{
	&Member{},
	&Room{},
	&MemberRoom{},
	&Schedule{},
	&Marker{},
	&ScheduleItem{},
}

// Member is a registered user. Email is the natural primary key, matching
// the identity handed over by the (external) auth layer.
type Member struct {
	Email     string    `json:"email" gorm:"primaryKey;size:255"`
	Nickname  string    `json:"nickname" gorm:"size:64"`
	CreatedAt time.Time `json:"createdAt"`

	// Has-many declarations put the foreign keys on the child tables. The
	// FK field names also exist here, so the belongs-to form on the child
	// side would be ambiguous.
	MemberRooms []MemberRoom `json:"-" gorm:"foreignKey:Email;references:Email;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Markers     []Marker     `json:"-" gorm:"foreignKey:Email;references:Email;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (*Member) TableName() string {
	return "members"
}

// Room is a shared trip-planning workspace.
type Room struct {
	RoomID    string    `json:"roomId" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"size:255"`
	Country   string    `json:"country" gorm:"size:64"`
	CreatedAt time.Time `json:"createdAt"`

	MemberRooms []MemberRoom `json:"-" gorm:"foreignKey:RoomID;references:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Schedules   []Schedule   `json:"-" gorm:"foreignKey:RoomID;references:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (*Room) TableName() string {
	return "rooms"
}

// MemberRoom joins a member to a room with a display color. Both uniqueness
// rules of the room are enforced here: one membership per (member, room) and
// one member per (room, color).
type MemberRoom struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex:idx_member_room_member"`
	RoomID    string    `json:"roomId" gorm:"size:36;uniqueIndex:idx_member_room_member;uniqueIndex:idx_member_room_color"`
	Color     string    `json:"color" gorm:"size:16;uniqueIndex:idx_member_room_color"`
	CreatedAt time.Time `json:"createdAt"`
}

func (*MemberRoom) TableName() string {
	return "member_rooms"
}

// Schedule is one day plan inside a room.
type Schedule struct {
	ID        uint           `json:"scheduleId" gorm:"primarykey;autoIncrement"`
	RoomID    string         `json:"roomId" gorm:"size:36;index:idx_schedule_room_id"`
	Name      string         `json:"name" gorm:"size:255"`
	PlanDate  datatypes.Date `json:"planDate"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (*Schedule) TableName() string {
	return "schedules"
}

// Marker is a proposed location pinned to a schedule by a member.
type Marker struct {
	ID         uint      `json:"markerId" gorm:"primarykey;autoIncrement"`
	Email      string    `json:"email" gorm:"size:255;index:idx_marker_email"`
	ScheduleID uint      `json:"scheduleId" gorm:"index:idx_marker_schedule_id"`
	Schedule   Schedule  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:ScheduleID"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Color      string    `json:"color" gorm:"size:16"`
	Confirmed  bool      `json:"confirmed" gorm:"default:false"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (*Marker) TableName() string {
	return "markers"
}

// ScheduleItem is an itinerary entry promoted from a confirmed marker. The
// unique index on MarkerID is the duplicate-promotion guard: the database
// rejects a second item for the same marker.
type ScheduleItem struct {
	ID        uint      `json:"itemId" gorm:"primarykey;autoIncrement"`
	MarkerID  uint      `json:"markerId" gorm:"uniqueIndex:idx_schedule_item_marker"`
	Marker    Marker    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:MarkerID"`
	Name      string    `json:"name" gorm:"size:255"`
	Content   string    `json:"content" gorm:"type:text"`
	Address   string    `json:"address" gorm:"size:255"`
	ItemOrder float64   `json:"itemOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (*ScheduleItem) TableName() string {
	return "schedule_items"
}

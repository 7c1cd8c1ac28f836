// Package core holds the transport-neutral domain types shared between the
// storage backends, the services, and the HTTP layer.
package core

import "time"

// Color identifies a member inside a room on the shared map. Within a single
// room a color belongs to at most one member. ColorRed is reserved: it is
// never assigned to a member and is stamped onto markers when they are
// confirmed.
type Color string

const (
	ColorRed    Color = "RED"
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorPurple Color = "PURPLE"
	ColorOrange Color = "ORANGE"
	ColorPink   Color = "PINK"
	ColorBrown  Color = "BROWN"
	ColorCyan   Color = "CYAN"
)

// Palette lists the colors assignable to room members, in assignment order.
// ColorRed is deliberately absent.
var Palette = []Color{
	ColorBlue,
	ColorGreen,
	ColorYellow,
	ColorPurple,
	ColorOrange,
	ColorPink,
	ColorBrown,
	ColorCyan,
}

// Assignable reports whether the color may be given to a room member.
func (c Color) Assignable() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Member is a registered user, identified by email.
type Member struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Room is a shared trip-planning workspace.
type Room struct {
	RoomID    string    `json:"roomId"`
	Title     string    `json:"title"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemberRoom links a member to a room and carries the member's display color
// within that room.
type MemberRoom struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	RoomID string `json:"roomId"`
	Color  Color  `json:"color"`
}

// Schedule is a single day plan inside a room.
type Schedule struct {
	ScheduleID uint      `json:"scheduleId"`
	RoomID     string    `json:"roomId"`
	Name       string    `json:"name"`
	PlanDate   time.Time `json:"planDate"`
}

// Marker is a location proposed on a schedule by a member. It starts
// unconfirmed in the proposing member's room color; confirming it promotes it
// into a ScheduleItem and recolors it to ColorRed. Confirmation is one-way.
type Marker struct {
	MarkerID   uint    `json:"markerId"`
	Email      string  `json:"email"`
	ScheduleID uint    `json:"scheduleId"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Color      Color   `json:"color"`
	Confirmed  bool    `json:"confirmed"`
}

// ScheduleItem is an itinerary entry created by confirming a marker. Exactly
// one item may exist per marker.
type ScheduleItem struct {
	ItemID    uint    `json:"itemId"`
	MarkerID  uint    `json:"markerId"`
	Name      string  `json:"name"`
	Content   string  `json:"content"`
	Address   string  `json:"address"`
	ItemOrder float64 `json:"itemOrder"`
}

// ScheduleMarkers pairs a schedule with its markers for room-wide listings.
// Schedules without markers appear with an empty slice.
type ScheduleMarkers struct {
	ScheduleID uint     `json:"scheduleId"`
	Markers    []Marker `json:"markers"`
}

// Package storage defines the persistence boundary consumed by the services.
// Implementations translate their engine-specific failures into the typed
// errors in pkg/core: absent rows surface as core.ErrNotFound and a second
// schedule item for one marker surfaces as core.ErrItemDuplicate.
package storage

import (
	"context"

	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// MarkerStore is the persistence boundary for markers.
type MarkerStore interface {
	CountBySchedule(ctx context.Context, scheduleID uint) (int64, error)
	CountByScheduleConfirmed(ctx context.Context, scheduleID uint) (int64, error)
	FindMarker(ctx context.Context, markerID uint) (core.Marker, error)
	FindMarkersBySchedule(ctx context.Context, scheduleID uint) ([]core.Marker, error)

	// SaveMarker inserts or updates; on insert the generated ID is assigned
	// to the passed pointer.
	SaveMarker(ctx context.Context, m *core.Marker) error
	DeleteMarker(ctx context.Context, markerID uint) error
}

// ScheduleItemStore is the persistence boundary for itinerary entries.
type ScheduleItemStore interface {
	// MaxItemOrder returns the highest item order among the schedule's
	// items, or 0 when the schedule has none.
	MaxItemOrder(ctx context.Context, scheduleID uint) (float64, error)

	// SaveScheduleItem inserts an item, assigning the generated ID. A second
	// item for the same marker fails with core.ErrItemDuplicate.
	SaveScheduleItem(ctx context.Context, item *core.ScheduleItem) error
	FindItemByMarker(ctx context.Context, markerID uint) (core.ScheduleItem, error)
}

// ScheduleStore is the persistence boundary for schedules.
type ScheduleStore interface {
	FindSchedule(ctx context.Context, scheduleID uint) (core.Schedule, error)
	FindSchedulesByRoom(ctx context.Context, roomID string) ([]core.Schedule, error)
	SaveSchedule(ctx context.Context, s *core.Schedule) error
}

// RoomStore is the persistence boundary for rooms.
type RoomStore interface {
	FindRoom(ctx context.Context, roomID string) (core.Room, error)
	SaveRoom(ctx context.Context, r *core.Room) error
}

// MemberStore is the persistence boundary for members.
type MemberStore interface {
	FindMember(ctx context.Context, email string) (core.Member, error)
	SaveMember(ctx context.Context, m *core.Member) error
}

// MemberRoomStore is the persistence boundary for room memberships.
type MemberRoomStore interface {
	FindMemberRoom(ctx context.Context, email, roomID string) (core.MemberRoom, error)
	FindMemberRoomsByRoom(ctx context.Context, roomID string) ([]core.MemberRoom, error)
	FindMemberRoomsByMember(ctx context.Context, email string) ([]core.MemberRoom, error)
	ColorInUse(ctx context.Context, roomID string, color core.Color) (bool, error)
	SaveMemberRoom(ctx context.Context, mr *core.MemberRoom) error
	DeleteMemberRoom(ctx context.Context, email, roomID string) error
}

// Store is the interface all storage implementations must satisfy.
type Store interface {
	MarkerStore
	ScheduleItemStore
	ScheduleStore
	RoomStore
	MemberStore
	MemberRoomStore

	// Transaction runs fn against a store view whose writes commit together:
	// if fn returns an error, none of its writes remain visible.
	Transaction(ctx context.Context, fn func(Store) error) error

	Close() error
}

// Package memory implements the storage.Store interface on in-process maps.
// It backs the test suites and the "memory" storage configuration.
package memory

import (
	"context"
	"sync"

	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// Store is a map-backed storage implementation. All methods are safe for
// concurrent use.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	members     map[string]core.Member
	rooms       map[string]core.Room
	memberRooms map[uint]core.MemberRoom
	schedules   map[uint]core.Schedule
	markers     map[uint]core.Marker
	items       map[uint]core.ScheduleItem

	nextMemberRoomID uint
	nextScheduleID   uint
	nextMarkerID     uint
	nextItemID       uint
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		members:     make(map[string]core.Member),
		rooms:       make(map[string]core.Room),
		memberRooms: make(map[uint]core.MemberRoom),
		schedules:   make(map[uint]core.Schedule),
		markers:     make(map[uint]core.Marker),
		items:       make(map[uint]core.ScheduleItem),
	}
}

func (s *Store) CountBySchedule(_ context.Context, scheduleID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, m := range s.markers {
		if m.ScheduleID == scheduleID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountByScheduleConfirmed(_ context.Context, scheduleID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, m := range s.markers {
		if m.ScheduleID == scheduleID && m.Confirmed {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindMarker(_ context.Context, markerID uint) (core.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markers[markerID]
	if !ok {
		return core.Marker{}, core.ErrNotFound
	}
	return m, nil
}

func (s *Store) FindMarkersBySchedule(_ context.Context, scheduleID uint) ([]core.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	markers := make([]core.Marker, 0)
	for id := uint(1); id <= s.nextMarkerID; id++ {
		if m, ok := s.markers[id]; ok && m.ScheduleID == scheduleID {
			markers = append(markers, m)
		}
	}
	return markers, nil
}

func (s *Store) SaveMarker(_ context.Context, m *core.Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.MarkerID == 0 {
		s.nextMarkerID++
		m.MarkerID = s.nextMarkerID
	}
	s.markers[m.MarkerID] = *m
	return nil
}

func (s *Store) DeleteMarker(_ context.Context, markerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[markerID]; !ok {
		return core.ErrNotFound
	}
	delete(s.markers, markerID)
	return nil
}

func (s *Store) MaxItemOrder(_ context.Context, scheduleID uint) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max float64
	for _, item := range s.items {
		m, ok := s.markers[item.MarkerID]
		if !ok || m.ScheduleID != scheduleID {
			continue
		}
		if item.ItemOrder > max {
			max = item.ItemOrder
		}
	}
	return max, nil
}

func (s *Store) SaveScheduleItem(_ context.Context, item *core.ScheduleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.MarkerID == item.MarkerID && existing.ItemID != item.ItemID {
			return core.ErrItemDuplicate
		}
	}
	if item.ItemID == 0 {
		s.nextItemID++
		item.ItemID = s.nextItemID
	}
	s.items[item.ItemID] = *item
	return nil
}

func (s *Store) FindItemByMarker(_ context.Context, markerID uint) (core.ScheduleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.MarkerID == markerID {
			return item, nil
		}
	}
	return core.ScheduleItem{}, core.ErrNotFound
}

func (s *Store) FindSchedule(_ context.Context, scheduleID uint) (core.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[scheduleID]
	if !ok {
		return core.Schedule{}, core.ErrNotFound
	}
	return sched, nil
}

func (s *Store) FindSchedulesByRoom(_ context.Context, roomID string) ([]core.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedules := make([]core.Schedule, 0)
	for id := uint(1); id <= s.nextScheduleID; id++ {
		if sched, ok := s.schedules[id]; ok && sched.RoomID == roomID {
			schedules = append(schedules, sched)
		}
	}
	return schedules, nil
}

func (s *Store) SaveSchedule(_ context.Context, sched *core.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sched.ScheduleID == 0 {
		s.nextScheduleID++
		sched.ScheduleID = s.nextScheduleID
	}
	s.schedules[sched.ScheduleID] = *sched
	return nil
}

func (s *Store) FindRoom(_ context.Context, roomID string) (core.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return core.Room{}, core.ErrNotFound
	}
	return r, nil
}

func (s *Store) SaveRoom(_ context.Context, r *core.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.RoomID] = *r
	return nil
}

func (s *Store) FindMember(_ context.Context, email string) (core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[email]
	if !ok {
		return core.Member{}, core.ErrNotFound
	}
	return m, nil
}

func (s *Store) SaveMember(_ context.Context, m *core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.Email] = *m
	return nil
}

func (s *Store) FindMemberRoom(_ context.Context, email, roomID string) (core.MemberRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mr := range s.memberRooms {
		if mr.Email == email && mr.RoomID == roomID {
			return mr, nil
		}
	}
	return core.MemberRoom{}, core.ErrNotFound
}

func (s *Store) FindMemberRoomsByRoom(_ context.Context, roomID string) ([]core.MemberRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MemberRoom, 0)
	for id := uint(1); id <= s.nextMemberRoomID; id++ {
		if mr, ok := s.memberRooms[id]; ok && mr.RoomID == roomID {
			out = append(out, mr)
		}
	}
	return out, nil
}

func (s *Store) FindMemberRoomsByMember(_ context.Context, email string) ([]core.MemberRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MemberRoom, 0)
	for id := uint(1); id <= s.nextMemberRoomID; id++ {
		if mr, ok := s.memberRooms[id]; ok && mr.Email == email {
			out = append(out, mr)
		}
	}
	return out, nil
}

func (s *Store) ColorInUse(_ context.Context, roomID string, color core.Color) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mr := range s.memberRooms {
		if mr.RoomID == roomID && mr.Color == color {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveMemberRoom(_ context.Context, mr *core.MemberRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mr.ID == 0 {
		s.nextMemberRoomID++
		mr.ID = s.nextMemberRoomID
	}
	s.memberRooms[mr.ID] = *mr
	return nil
}

func (s *Store) DeleteMemberRoom(_ context.Context, email, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, mr := range s.memberRooms {
		if mr.Email == email && mr.RoomID == roomID {
			delete(s.memberRooms, id)
			return nil
		}
	}
	return core.ErrMembershipNotFound
}

// Transaction serializes against other transactions, snapshots the maps and
// restores them if fn fails. fn must not start a nested transaction.
func (s *Store) Transaction(_ context.Context, fn func(storage.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	members     map[string]core.Member
	rooms       map[string]core.Room
	memberRooms map[uint]core.MemberRoom
	schedules   map[uint]core.Schedule
	markers     map[uint]core.Marker
	items       map[uint]core.ScheduleItem

	nextMemberRoomID uint
	nextScheduleID   uint
	nextMarkerID     uint
	nextItemID       uint
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		members:          copyMap(s.members),
		rooms:            copyMap(s.rooms),
		memberRooms:      copyMap(s.memberRooms),
		schedules:        copyMap(s.schedules),
		markers:          copyMap(s.markers),
		items:            copyMap(s.items),
		nextMemberRoomID: s.nextMemberRoomID,
		nextScheduleID:   s.nextScheduleID,
		nextMarkerID:     s.nextMarkerID,
		nextItemID:       s.nextItemID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = snap.members
	s.rooms = snap.rooms
	s.memberRooms = snap.memberRooms
	s.schedules = snap.schedules
	s.markers = snap.markers
	s.items = snap.items
	s.nextMemberRoomID = snap.nextMemberRoomID
	s.nextScheduleID = snap.nextScheduleID
	s.nextMarkerID = snap.nextMarkerID
	s.nextItemID = snap.nextItemID
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

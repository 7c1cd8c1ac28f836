// Package gormstore implements the storage.Store interface on a GORM
// database handle, serving both the Postgres and SQLite configurations.
package gormstore

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LimHyeonGyu/wayferecicd/internal/model"
	"github.com/LimHyeonGyu/wayferecicd/internal/model/convert"
	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// Store is a database-backed storage implementation.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a Store on an open GORM handle. The handle must have been
// opened with TranslateError so duplicate-key failures are recognizable.
func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// translate maps GORM failures onto the domain error types.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNotFound
	}
	return err
}

func (s *Store) CountBySchedule(ctx context.Context, scheduleID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.Marker{}).
		Where("schedule_id = ?", scheduleID).
		Count(&n).Error
	return n, err
}

func (s *Store) CountByScheduleConfirmed(ctx context.Context, scheduleID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.Marker{}).
		Where("schedule_id = ? AND confirmed = ?", scheduleID, true).
		Count(&n).Error
	return n, err
}

func (s *Store) FindMarker(ctx context.Context, markerID uint) (core.Marker, error) {
	var rec model.Marker
	if err := s.db.WithContext(ctx).First(&rec, markerID).Error; err != nil {
		return core.Marker{}, translate(err)
	}
	return convert.MarkerToCore(rec), nil
}

func (s *Store) FindMarkersBySchedule(ctx context.Context, scheduleID uint) ([]core.Marker, error) {
	var recs []model.Marker
	err := s.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	markers := make([]core.Marker, 0, len(recs))
	for _, rec := range recs {
		markers = append(markers, convert.MarkerToCore(rec))
	}
	return markers, nil
}

func (s *Store) SaveMarker(ctx context.Context, m *core.Marker) error {
	rec := convert.CoreToMarker(*m)
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&rec).Error
	if err != nil {
		return err
	}
	m.MarkerID = rec.ID
	return nil
}

func (s *Store) DeleteMarker(ctx context.Context, markerID uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Marker{}, markerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) MaxItemOrder(ctx context.Context, scheduleID uint) (float64, error) {
	var max float64
	err := s.db.WithContext(ctx).
		Model(&model.ScheduleItem{}).
		Joins("JOIN markers ON markers.id = schedule_items.marker_id").
		Where("markers.schedule_id = ?", scheduleID).
		Select("COALESCE(MAX(schedule_items.item_order), 0)").
		Scan(&max).Error
	return max, err
}

func (s *Store) SaveScheduleItem(ctx context.Context, item *core.ScheduleItem) error {
	rec := convert.CoreToScheduleItem(*item)
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.ErrItemDuplicate
		}
		return err
	}
	item.ItemID = rec.ID
	return nil
}

func (s *Store) FindItemByMarker(ctx context.Context, markerID uint) (core.ScheduleItem, error) {
	var rec model.ScheduleItem
	err := s.db.WithContext(ctx).
		Where("marker_id = ?", markerID).
		First(&rec).Error
	if err != nil {
		return core.ScheduleItem{}, translate(err)
	}
	return convert.ScheduleItemToCore(rec), nil
}

func (s *Store) FindSchedule(ctx context.Context, scheduleID uint) (core.Schedule, error) {
	var rec model.Schedule
	if err := s.db.WithContext(ctx).First(&rec, scheduleID).Error; err != nil {
		return core.Schedule{}, translate(err)
	}
	return convert.ScheduleToCore(rec), nil
}

func (s *Store) FindSchedulesByRoom(ctx context.Context, roomID string) ([]core.Schedule, error) {
	var recs []model.Schedule
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	schedules := make([]core.Schedule, 0, len(recs))
	for _, rec := range recs {
		schedules = append(schedules, convert.ScheduleToCore(rec))
	}
	return schedules, nil
}

func (s *Store) SaveSchedule(ctx context.Context, sched *core.Schedule) error {
	rec := convert.CoreToSchedule(*sched)
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&rec).Error
	if err != nil {
		return err
	}
	sched.ScheduleID = rec.ID
	return nil
}

func (s *Store) FindRoom(ctx context.Context, roomID string) (core.Room, error) {
	var rec model.Room
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		First(&rec).Error
	if err != nil {
		return core.Room{}, translate(err)
	}
	return convert.RoomToCore(rec), nil
}

func (s *Store) SaveRoom(ctx context.Context, r *core.Room) error {
	rec := convert.CoreToRoom(*r)
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(&rec).Error
}

func (s *Store) FindMember(ctx context.Context, email string) (core.Member, error) {
	var rec model.Member
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&rec).Error
	if err != nil {
		return core.Member{}, translate(err)
	}
	return convert.MemberToCore(rec), nil
}

func (s *Store) SaveMember(ctx context.Context, m *core.Member) error {
	rec := convert.CoreToMember(*m)
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(&rec).Error
}

func (s *Store) FindMemberRoom(ctx context.Context, email, roomID string) (core.MemberRoom, error) {
	var rec model.MemberRoom
	err := s.db.WithContext(ctx).
		Where("email = ? AND room_id = ?", email, roomID).
		First(&rec).Error
	if err != nil {
		return core.MemberRoom{}, translate(err)
	}
	return convert.MemberRoomToCore(rec), nil
}

func (s *Store) FindMemberRoomsByRoom(ctx context.Context, roomID string) ([]core.MemberRoom, error) {
	var recs []model.MemberRoom
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return memberRoomsToCore(recs), nil
}

func (s *Store) FindMemberRoomsByMember(ctx context.Context, email string) ([]core.MemberRoom, error) {
	var recs []model.MemberRoom
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return memberRoomsToCore(recs), nil
}

func memberRoomsToCore(recs []model.MemberRoom) []core.MemberRoom {
	out := make([]core.MemberRoom, 0, len(recs))
	for _, rec := range recs {
		out = append(out, convert.MemberRoomToCore(rec))
	}
	return out
}

func (s *Store) ColorInUse(ctx context.Context, roomID string, color core.Color) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.MemberRoom{}).
		Where("room_id = ? AND color = ?", roomID, string(color)).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) SaveMemberRoom(ctx context.Context, mr *core.MemberRoom) error {
	rec := convert.CoreToMemberRoom(*mr)
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&rec).Error
	if err != nil {
		return err
	}
	mr.ID = rec.ID
	return nil
}

func (s *Store) DeleteMemberRoom(ctx context.Context, email, roomID string) error {
	res := s.db.WithContext(ctx).
		Where("email = ? AND room_id = ?", email, roomID).
		Delete(&model.MemberRoom{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrMembershipNotFound
	}
	return nil
}

// Transaction runs fn against a transaction-scoped view of the store. Any
// error from fn rolls the whole write set back.
func (s *Store) Transaction(ctx context.Context, fn func(storage.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

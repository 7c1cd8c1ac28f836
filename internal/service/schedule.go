package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// ScheduleService manages the day plans of a room.
type ScheduleService struct {
	store storage.Store
	log   zerolog.Logger
}

// NewScheduleService creates a ScheduleService.
func NewScheduleService(store storage.Store, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{store: store, log: log}
}

// Create adds a schedule to a room.
func (s *ScheduleService) Create(ctx context.Context, roomID, name string, planDate time.Time) (core.Schedule, error) {
	if strings.TrimSpace(name) == "" {
		return core.Schedule{}, core.NewError(core.CodeValidation, "schedule name must not be empty")
	}
	if _, err := s.store.FindRoom(ctx, roomID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Schedule{}, core.NewError(core.CodeNotFound, "room not found")
		}
		return core.Schedule{}, err
	}

	sched := core.Schedule{RoomID: roomID, Name: name, PlanDate: planDate}
	if err := s.store.SaveSchedule(ctx, &sched); err != nil {
		return core.Schedule{}, err
	}

	s.log.Debug().Uint("scheduleId", sched.ScheduleID).Str("roomId", roomID).Msg("Schedule created")
	return sched, nil
}

// Get returns one schedule by ID.
func (s *ScheduleService) Get(ctx context.Context, scheduleID uint) (core.Schedule, error) {
	sched, err := s.store.FindSchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Schedule{}, core.NewError(core.CodeNotFound, "schedule not found")
		}
		return core.Schedule{}, err
	}
	return sched, nil
}

// ListByRoom returns all schedules of a room in creation order.
func (s *ScheduleService) ListByRoom(ctx context.Context, roomID string) ([]core.Schedule, error) {
	if _, err := s.store.FindRoom(ctx, roomID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewError(core.CodeNotFound, "room not found")
		}
		return nil, err
	}
	return s.store.FindSchedulesByRoom(ctx, roomID)
}

// Package service implements the trip-planning operations on top of the
// storage boundary: markers, memberships, rooms and schedules.
package service

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/LimHyeonGyu/wayferecicd/internal/geo"
	"github.com/LimHyeonGyu/wayferecicd/internal/metrics"
	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

const (
	// MaxMarkersPerSchedule caps all markers on one schedule.
	MaxMarkersPerSchedule = 100
	// MaxConfirmedPerSchedule caps confirmed markers on one schedule.
	MaxConfirmedPerSchedule = 50

	defaultItemContent = "No details yet"
)

// Geocoder resolves coordinates to a human-readable address.
// *geocode.Client satisfies it.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// MarkerService manages the marker lifecycle: propose, list, confirm into a
// schedule item, delete.
type MarkerService struct {
	store    storage.Store
	geocoder Geocoder
	metrics  *metrics.Recorder
	log      zerolog.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewMarkerService creates a MarkerService. metrics may be nil.
func NewMarkerService(store storage.Store, geocoder Geocoder, rec *metrics.Recorder, log zerolog.Logger) *MarkerService {
	return &MarkerService{
		store:    store,
		geocoder: geocoder,
		metrics:  rec,
		log:      log,
		locks:    make(map[uint]*sync.Mutex),
	}
}

// lockSchedule serializes the check-then-write sections per schedule, so two
// concurrent requests cannot both pass a count check that only one may pass.
func (s *MarkerService) lockSchedule(scheduleID uint) func() {
	s.mu.Lock()
	l, ok := s.locks[scheduleID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[scheduleID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create pins a new marker to a schedule. The marker takes the creator's room
// color and starts unconfirmed. Fails with MAX_LIMIT_EXCEEDED once the
// schedule holds MaxMarkersPerSchedule markers, and with MEMBERSHIP_NOT_FOUND
// when the creator is not a member of the schedule's room.
func (s *MarkerService) Create(ctx context.Context, m core.Marker) (core.Marker, error) {
	if err := geo.ValidateLatLng(m.Lat, m.Lng); err != nil {
		return core.Marker{}, core.WrapError(core.CodeValidation, "invalid coordinates", err)
	}

	sched, err := s.store.FindSchedule(ctx, m.ScheduleID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Marker{}, core.NewError(core.CodeNotFound, "schedule not found")
		}
		return core.Marker{}, err
	}

	unlock := s.lockSchedule(m.ScheduleID)
	defer unlock()

	created := m
	created.MarkerID = 0
	created.Confirmed = false

	err = s.store.Transaction(ctx, func(tx storage.Store) error {
		count, err := tx.CountBySchedule(ctx, m.ScheduleID)
		if err != nil {
			return err
		}
		if count >= MaxMarkersPerSchedule {
			return core.ErrMaxLimitExceeded
		}

		membership, err := tx.FindMemberRoom(ctx, m.Email, sched.RoomID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.ErrMembershipNotFound
			}
			return err
		}
		created.Color = membership.Color

		return tx.SaveMarker(ctx, &created)
	})
	if err != nil {
		s.rejected(ctx, "create", err)
		return core.Marker{}, err
	}

	s.metrics.MarkerCreated(ctx, sched.RoomID, created.ScheduleID)
	s.log.Debug().
		Uint("markerId", created.MarkerID).
		Uint("scheduleId", created.ScheduleID).
		Str("email", created.Email).
		Msg("Marker created")
	return created, nil
}

// Read returns one marker by ID.
func (s *MarkerService) Read(ctx context.Context, markerID uint) (core.Marker, error) {
	m, err := s.store.FindMarker(ctx, markerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Marker{}, core.NewError(core.CodeNotFound, "marker not found")
		}
		return core.Marker{}, err
	}
	return m, nil
}

// ListBySchedule returns all markers on a schedule in creation order.
func (s *MarkerService) ListBySchedule(ctx context.Context, scheduleID uint) ([]core.Marker, error) {
	if _, err := s.store.FindSchedule(ctx, scheduleID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewError(core.CodeNotFound, "schedule not found")
		}
		return nil, err
	}
	return s.store.FindMarkersBySchedule(ctx, scheduleID)
}

// ListByRoom returns the markers of every schedule in a room, one entry per
// schedule. Schedules without markers appear with an empty slice; an unknown
// room simply yields no entries.
func (s *MarkerService) ListByRoom(ctx context.Context, roomID string) ([]core.ScheduleMarkers, error) {
	schedules, err := s.store.FindSchedulesByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	out := make([]core.ScheduleMarkers, 0, len(schedules))
	for _, sched := range schedules {
		markers, err := s.store.FindMarkersBySchedule(ctx, sched.ScheduleID)
		if err != nil {
			return nil, err
		}
		out = append(out, core.ScheduleMarkers{
			ScheduleID: sched.ScheduleID,
			Markers:    markers,
		})
	}
	return out, nil
}

// UpdateConfirmation sets a marker's confirmation state. Confirming promotes
// the marker into a schedule item: the address from reverse geocoding becomes
// the item's name and address, the item is ordered after every existing item,
// and the marker turns ColorRed. Confirming an already-confirmed marker fails
// with ITEM_DUPLICATE before any side effect; passing confirm=false leaves
// the marker untouched.
func (s *MarkerService) UpdateConfirmation(ctx context.Context, markerID uint, confirm bool) (core.Marker, error) {
	m, err := s.store.FindMarker(ctx, markerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Marker{}, core.NewError(core.CodeNotFound, "marker not found")
		}
		return core.Marker{}, err
	}

	if !confirm {
		return m, nil
	}
	if m.Confirmed {
		s.rejected(ctx, "confirm", core.ErrItemDuplicate)
		return core.Marker{}, core.ErrItemDuplicate
	}

	sched, err := s.store.FindSchedule(ctx, m.ScheduleID)
	if err != nil {
		return core.Marker{}, err
	}

	// The upstream call happens before the lock and the transaction, so a
	// slow geocoder never stalls other writers of this schedule.
	address, err := s.geocoder.ReverseGeocode(ctx, m.Lat, m.Lng)
	if err != nil {
		return core.Marker{}, core.WrapError(core.CodeUpstreamFailure, "reverse geocoding failed", err)
	}

	unlock := s.lockSchedule(m.ScheduleID)
	defer unlock()

	err = s.store.Transaction(ctx, func(tx storage.Store) error {
		confirmed, err := tx.CountByScheduleConfirmed(ctx, m.ScheduleID)
		if err != nil {
			return err
		}
		if confirmed >= MaxConfirmedPerSchedule {
			return core.ErrConfirmedLimitExceeded
		}

		maxOrder, err := tx.MaxItemOrder(ctx, m.ScheduleID)
		if err != nil {
			return err
		}

		item := core.ScheduleItem{
			MarkerID:  m.MarkerID,
			Name:      address,
			Content:   defaultItemContent,
			Address:   address,
			ItemOrder: math.Floor(maxOrder) + 1.0,
		}
		if err := tx.SaveScheduleItem(ctx, &item); err != nil {
			return err
		}

		m.Confirmed = true
		m.Color = core.ColorRed
		return tx.SaveMarker(ctx, &m)
	})
	if err != nil {
		s.rejected(ctx, "confirm", err)
		return core.Marker{}, err
	}

	s.metrics.MarkerConfirmed(ctx, sched.RoomID, m.ScheduleID)
	s.log.Info().
		Uint("markerId", m.MarkerID).
		Uint("scheduleId", m.ScheduleID).
		Str("address", address).
		Msg("Marker confirmed")
	return m, nil
}

// Delete removes an unconfirmed marker. Confirmed markers are part of the
// itinerary and fail with DELETE_FAIL.
func (s *MarkerService) Delete(ctx context.Context, markerID uint) error {
	m, err := s.store.FindMarker(ctx, markerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewError(core.CodeNotFound, "marker not found")
		}
		return err
	}
	if m.Confirmed {
		s.rejected(ctx, "delete", core.ErrDeleteFail)
		return core.ErrDeleteFail
	}

	if err := s.store.DeleteMarker(ctx, markerID); err != nil {
		return err
	}

	roomID := ""
	if sched, err := s.store.FindSchedule(ctx, m.ScheduleID); err == nil {
		roomID = sched.RoomID
	}
	s.metrics.MarkerDeleted(ctx, roomID, m.ScheduleID)
	s.log.Debug().Uint("markerId", markerID).Msg("Marker deleted")
	return nil
}

// ScheduleBounds summarizes the geography of a schedule's markers: bounding
// box, center, and the center projected to web mercator.
func (s *MarkerService) ScheduleBounds(ctx context.Context, scheduleID uint) (geo.Bounds, error) {
	markers, err := s.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return geo.Bounds{}, err
	}
	return geo.MarkerBounds(markers)
}

func (s *MarkerService) rejected(ctx context.Context, operation string, err error) {
	var domainErr *core.Error
	if errors.As(err, &domainErr) {
		s.metrics.MarkerRejected(ctx, operation, string(domainErr.Code))
	}
}

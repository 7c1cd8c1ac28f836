package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LimHyeonGyu/wayferecicd/internal/storage/memory"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

type stubGeocoder struct {
	address string
	err     error
	calls   int
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.address, nil
}

type markerFixture struct {
	store      *memory.Store
	geocoder   *stubGeocoder
	markers    *MarkerService
	scheduleID uint
}

// newMarkerFixture seeds a member, a room with a membership, and one
// schedule.
func newMarkerFixture(t *testing.T) *markerFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveMember(ctx, &core.Member{Email: "alice@example.com", Nickname: "alice"}))
	require.NoError(t, store.SaveRoom(ctx, &core.Room{RoomID: "room-1", Title: "Summer trip", Country: "KR"}))
	require.NoError(t, store.SaveMemberRoom(ctx, &core.MemberRoom{
		Email: "alice@example.com", RoomID: "room-1", Color: core.ColorBlue,
	}))
	sched := core.Schedule{RoomID: "room-1", Name: "Day 1"}
	require.NoError(t, store.SaveSchedule(ctx, &sched))

	geocoder := &stubGeocoder{address: "Namsan Tower, Seoul"}
	return &markerFixture{
		store:      store,
		geocoder:   geocoder,
		markers:    NewMarkerService(store, geocoder, nil, zerolog.Nop()),
		scheduleID: sched.ScheduleID,
	}
}

func (f *markerFixture) create(t *testing.T, lat, lng float64) core.Marker {
	t.Helper()
	m, err := f.markers.Create(context.Background(), core.Marker{
		Email:      "alice@example.com",
		ScheduleID: f.scheduleID,
		Lat:        lat,
		Lng:        lng,
	})
	require.NoError(t, err)
	return m
}

func TestCreateMarkerTakesMembershipColor(t *testing.T) {
	f := newMarkerFixture(t)

	m := f.create(t, 37.5512, 126.9882)
	assert.NotZero(t, m.MarkerID)
	assert.Equal(t, core.ColorBlue, m.Color)
	assert.False(t, m.Confirmed)

	got, err := f.markers.Read(context.Background(), m.MarkerID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestCreateMarkerIgnoresClientState(t *testing.T) {
	f := newMarkerFixture(t)

	m, err := f.markers.Create(context.Background(), core.Marker{
		Email:      "alice@example.com",
		ScheduleID: f.scheduleID,
		Lat:        37.5,
		Lng:        127.0,
		Color:      core.ColorRed,
		Confirmed:  true,
		MarkerID:   42,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uint(42), m.MarkerID)
	assert.Equal(t, core.ColorBlue, m.Color)
	assert.False(t, m.Confirmed)
}

func TestCreateMarkerInvalidCoordinates(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for _, tc := range []struct{ lat, lng float64 }{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	} {
		_, err := f.markers.Create(ctx, core.Marker{
			Email: "alice@example.com", ScheduleID: f.scheduleID, Lat: tc.lat, Lng: tc.lng,
		})
		var domainErr *core.Error
		require.ErrorAs(t, err, &domainErr, "lat=%v lng=%v", tc.lat, tc.lng)
		assert.Equal(t, core.CodeValidation, domainErr.Code)
	}
}

func TestCreateMarkerUnknownSchedule(t *testing.T) {
	f := newMarkerFixture(t)

	_, err := f.markers.Create(context.Background(), core.Marker{
		Email: "alice@example.com", ScheduleID: 999, Lat: 37.5, Lng: 127.0,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateMarkerWithoutMembership(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SaveMember(ctx, &core.Member{Email: "bob@example.com"}))

	_, err := f.markers.Create(ctx, core.Marker{
		Email: "bob@example.com", ScheduleID: f.scheduleID, Lat: 37.5, Lng: 127.0,
	})
	assert.ErrorIs(t, err, core.ErrMembershipNotFound)

	// The rejected marker left nothing behind.
	markers, listErr := f.markers.ListBySchedule(ctx, f.scheduleID)
	require.NoError(t, listErr)
	assert.Empty(t, markers)
}

func TestCreateMarkerScheduleLimit(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for i := 0; i < MaxMarkersPerSchedule; i++ {
		f.create(t, 37.5, 127.0)
	}

	_, err := f.markers.Create(ctx, core.Marker{
		Email: "alice@example.com", ScheduleID: f.scheduleID, Lat: 37.5, Lng: 127.0,
	})
	assert.ErrorIs(t, err, core.ErrMaxLimitExceeded)

	markers, err := f.markers.ListBySchedule(ctx, f.scheduleID)
	require.NoError(t, err)
	assert.Len(t, markers, MaxMarkersPerSchedule)
}

func TestConfirmPromotesMarker(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	m := f.create(t, 37.5512, 126.9882)

	got, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
	assert.Equal(t, core.ColorRed, got.Color)

	item, err := f.store.FindItemByMarker(ctx, m.MarkerID)
	require.NoError(t, err)
	assert.Equal(t, "Namsan Tower, Seoul", item.Name)
	assert.Equal(t, "Namsan Tower, Seoul", item.Address)
	assert.Equal(t, "No details yet", item.Content)
	assert.Equal(t, 1.0, item.ItemOrder)
}

func TestConfirmOrderSequence(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for want := 1.0; want <= 3.0; want++ {
		m := f.create(t, 37.5, 127.0)
		_, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
		require.NoError(t, err)

		item, err := f.store.FindItemByMarker(ctx, m.MarkerID)
		require.NoError(t, err)
		assert.Equal(t, want, item.ItemOrder)
	}
}

func TestConfirmOrderAfterFractional(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	// A manually re-ordered item sits at 3.7; the next promotion lands on
	// floor(3.7)+1 = 4.
	placed := f.create(t, 37.5, 127.0)
	_, err := f.markers.UpdateConfirmation(ctx, placed.MarkerID, true)
	require.NoError(t, err)
	item, err := f.store.FindItemByMarker(ctx, placed.MarkerID)
	require.NoError(t, err)
	item.ItemOrder = 3.7
	require.NoError(t, f.store.SaveScheduleItem(ctx, &item))

	next := f.create(t, 37.5, 127.0)
	_, err = f.markers.UpdateConfirmation(ctx, next.MarkerID, true)
	require.NoError(t, err)

	nextItem, err := f.store.FindItemByMarker(ctx, next.MarkerID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, nextItem.ItemOrder)
}

func TestConfirmTwiceFails(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	m := f.create(t, 37.5, 127.0)

	_, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
	require.NoError(t, err)
	geocodeCalls := f.geocoder.calls

	_, err = f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
	assert.ErrorIs(t, err, core.ErrItemDuplicate)
	// Rejected before any side effect: no second geocoder call.
	assert.Equal(t, geocodeCalls, f.geocoder.calls)
}

func TestConfirmFalseLeavesMarkerUntouched(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	m := f.create(t, 37.5, 127.0)

	got, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, false)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Zero(t, f.geocoder.calls)

	_, err = f.store.FindItemByMarker(ctx, m.MarkerID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestConfirmUnknownMarker(t *testing.T) {
	f := newMarkerFixture(t)

	_, err := f.markers.UpdateConfirmation(context.Background(), 999, true)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestConfirmGeocoderFailureHasNoSideEffects(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	m := f.create(t, 37.5, 127.0)

	f.geocoder.err = fmt.Errorf("upstream timeout")
	_, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
	var domainErr *core.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, core.CodeUpstreamFailure, domainErr.Code)

	got, readErr := f.markers.Read(ctx, m.MarkerID)
	require.NoError(t, readErr)
	assert.False(t, got.Confirmed)
	assert.Equal(t, core.ColorBlue, got.Color)
	_, itemErr := f.store.FindItemByMarker(ctx, m.MarkerID)
	assert.ErrorIs(t, itemErr, core.ErrNotFound)

	// Once the upstream recovers the same marker confirms cleanly.
	f.geocoder.err = nil
	_, err = f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
	require.NoError(t, err)
}

func TestConfirmedLimit(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for i := 0; i < MaxConfirmedPerSchedule; i++ {
		m := f.create(t, 37.5, 127.0)
		_, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
		require.NoError(t, err)
	}

	extra := f.create(t, 37.5, 127.0)
	_, err := f.markers.UpdateConfirmation(ctx, extra.MarkerID, true)
	assert.ErrorIs(t, err, core.ErrConfirmedLimitExceeded)

	// The rejected confirmation rolled back completely.
	got, readErr := f.markers.Read(ctx, extra.MarkerID)
	require.NoError(t, readErr)
	assert.False(t, got.Confirmed)
	_, itemErr := f.store.FindItemByMarker(ctx, extra.MarkerID)
	assert.ErrorIs(t, itemErr, core.ErrNotFound)
}

func TestDeleteMarker(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	m := f.create(t, 37.5, 127.0)

	require.NoError(t, f.markers.Delete(ctx, m.MarkerID))
	_, err := f.markers.Read(ctx, m.MarkerID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteConfirmedMarkerFails(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()
	m := f.create(t, 37.5, 127.0)
	_, err := f.markers.UpdateConfirmation(ctx, m.MarkerID, true)
	require.NoError(t, err)

	assert.ErrorIs(t, f.markers.Delete(ctx, m.MarkerID), core.ErrDeleteFail)

	got, readErr := f.markers.Read(ctx, m.MarkerID)
	require.NoError(t, readErr)
	assert.True(t, got.Confirmed)
}

func TestDeleteUnknownMarker(t *testing.T) {
	f := newMarkerFixture(t)
	assert.ErrorIs(t, f.markers.Delete(context.Background(), 999), core.ErrNotFound)
}

func TestListByScheduleUnknownSchedule(t *testing.T) {
	f := newMarkerFixture(t)
	_, err := f.markers.ListBySchedule(context.Background(), 999)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListByRoomIncludesEmptySchedules(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	empty := core.Schedule{RoomID: "room-1", Name: "Day 2"}
	require.NoError(t, f.store.SaveSchedule(ctx, &empty))
	f.create(t, 37.5, 127.0)

	byRoom, err := f.markers.ListByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, byRoom, 2)
	assert.Equal(t, f.scheduleID, byRoom[0].ScheduleID)
	assert.Len(t, byRoom[0].Markers, 1)
	assert.Equal(t, empty.ScheduleID, byRoom[1].ScheduleID)
	assert.Empty(t, byRoom[1].Markers)
}

func TestListByRoomUnknownRoom(t *testing.T) {
	f := newMarkerFixture(t)

	byRoom, err := f.markers.ListByRoom(context.Background(), "room-none")
	require.NoError(t, err)
	assert.Empty(t, byRoom)
}

func TestScheduleBounds(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	f.create(t, 37.0, 126.0)
	f.create(t, 38.0, 128.0)

	bounds, err := f.markers.ScheduleBounds(ctx, f.scheduleID)
	require.NoError(t, err)
	assert.False(t, bounds.Empty)
	assert.Equal(t, 37.0, bounds.MinLat)
	assert.Equal(t, 38.0, bounds.MaxLat)
	assert.Equal(t, 126.0, bounds.MinLng)
	assert.Equal(t, 128.0, bounds.MaxLng)
	assert.Equal(t, 37.5, bounds.CenterLat)
	assert.Equal(t, 127.0, bounds.CenterLng)
}

func TestScheduleBoundsEmpty(t *testing.T) {
	f := newMarkerFixture(t)

	bounds, err := f.markers.ScheduleBounds(context.Background(), f.scheduleID)
	require.NoError(t, err)
	assert.True(t, bounds.Empty)
}

func TestConcurrentCreatesRespectLimit(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for i := 0; i < MaxMarkersPerSchedule-5; i++ {
		f.create(t, 37.5, 127.0)
	}

	errCh := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			_, err := f.markers.Create(ctx, core.Marker{
				Email: "alice@example.com", ScheduleID: f.scheduleID, Lat: 37.5, Lng: 127.0,
			})
			errCh <- err
		}()
	}

	var ok, rejected int
	for i := 0; i < 20; i++ {
		err := <-errCh
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, core.ErrMaxLimitExceeded):
			rejected++
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, rejected)

	markers, err := f.markers.ListBySchedule(ctx, f.scheduleID)
	require.NoError(t, err)
	assert.Len(t, markers, MaxMarkersPerSchedule)
}

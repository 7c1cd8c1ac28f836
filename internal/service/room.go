package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// RoomService manages trip-planning rooms.
type RoomService struct {
	store   storage.Store
	members *MemberRoomService
	log     zerolog.Logger
}

// NewRoomService creates a RoomService.
func NewRoomService(store storage.Store, members *MemberRoomService, log zerolog.Logger) *RoomService {
	return &RoomService{store: store, members: members, log: log}
}

// Create opens a new room and joins the creator to it, so the creator holds
// the first palette color.
func (s *RoomService) Create(ctx context.Context, creatorEmail, title, country string) (core.Room, error) {
	if strings.TrimSpace(title) == "" {
		return core.Room{}, core.NewError(core.CodeValidation, "room title must not be empty")
	}
	if _, err := s.store.FindMember(ctx, creatorEmail); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Room{}, core.NewError(core.CodeNotFound, "member not found")
		}
		return core.Room{}, err
	}

	room := core.Room{
		RoomID:    uuid.NewString(),
		Title:     title,
		Country:   country,
		CreatedAt: time.Now().UTC(),
	}
	s.members.joinMu.Lock()
	defer s.members.joinMu.Unlock()

	// One transaction covers the room and the creator's membership, so a
	// failed join never leaves an orphan room behind.
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		if err := tx.SaveRoom(ctx, &room); err != nil {
			return err
		}
		_, err := s.members.join(ctx, tx, creatorEmail, room.RoomID)
		return err
	})
	if err != nil {
		return core.Room{}, err
	}

	s.log.Info().Str("roomId", room.RoomID).Str("creator", creatorEmail).Msg("Room created")
	return room, nil
}

// Get returns one room by ID.
func (s *RoomService) Get(ctx context.Context, roomID string) (core.Room, error) {
	room, err := s.store.FindRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Room{}, core.NewError(core.CodeNotFound, "room not found")
		}
		return core.Room{}, err
	}
	return room, nil
}

// ListForMember returns every room a member belongs to.
func (s *RoomService) ListForMember(ctx context.Context, email string) ([]core.Room, error) {
	memberships, err := s.store.FindMemberRoomsByMember(ctx, email)
	if err != nil {
		return nil, err
	}

	rooms := make([]core.Room, 0, len(memberships))
	for _, mr := range memberships {
		room, err := s.store.FindRoom(ctx, mr.RoomID)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// MemberRoomService manages room memberships and the color identity each
// member carries inside a room.
type MemberRoomService struct {
	store storage.Store
	log   zerolog.Logger

	// joinMu serializes color assignment per room.
	joinMu sync.Mutex
}

// NewMemberRoomService creates a MemberRoomService.
func NewMemberRoomService(store storage.Store, log zerolog.Logger) *MemberRoomService {
	return &MemberRoomService{store: store, log: log}
}

// Join adds a member to a room and hands them the first free palette color.
// Joining a room the member already belongs to returns the existing
// membership unchanged. A full room fails with COLOR_EXHAUSTED.
func (s *MemberRoomService) Join(ctx context.Context, email, roomID string) (core.MemberRoom, error) {
	if _, err := s.store.FindMember(ctx, email); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.MemberRoom{}, core.NewError(core.CodeNotFound, "member not found")
		}
		return core.MemberRoom{}, err
	}
	if _, err := s.store.FindRoom(ctx, roomID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.MemberRoom{}, core.NewError(core.CodeNotFound, "room not found")
		}
		return core.MemberRoom{}, err
	}

	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	var mr core.MemberRoom
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		var err error
		mr, err = s.join(ctx, tx, email, roomID)
		return err
	})
	if err != nil {
		return core.MemberRoom{}, err
	}

	s.log.Debug().
		Str("email", email).
		Str("roomId", roomID).
		Str("color", string(mr.Color)).
		Msg("Member joined room")
	return mr, nil
}

// join assigns the first free palette color inside the caller's transaction.
// Callers hold joinMu.
func (s *MemberRoomService) join(ctx context.Context, tx storage.Store, email, roomID string) (core.MemberRoom, error) {
	existing, err := tx.FindMemberRoom(ctx, email, roomID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.MemberRoom{}, err
	}

	mr := core.MemberRoom{Email: email, RoomID: roomID}
	for _, color := range core.Palette {
		inUse, err := tx.ColorInUse(ctx, roomID, color)
		if err != nil {
			return core.MemberRoom{}, err
		}
		if !inUse {
			mr.Color = color
			return mr, tx.SaveMemberRoom(ctx, &mr)
		}
	}
	return core.MemberRoom{}, core.ErrColorExhausted
}

// ColorOf returns the color a member carries in a room. A missing membership
// fails with MEMBERSHIP_NOT_FOUND.
func (s *MemberRoomService) ColorOf(ctx context.Context, email, roomID string) (core.Color, error) {
	mr, err := s.store.FindMemberRoom(ctx, email, roomID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.ErrMembershipNotFound
		}
		return "", err
	}
	return mr.Color, nil
}

// Leave removes a membership, freeing its color for the next joiner.
func (s *MemberRoomService) Leave(ctx context.Context, email, roomID string) error {
	if err := s.store.DeleteMemberRoom(ctx, email, roomID); err != nil {
		return err
	}
	s.log.Debug().Str("email", email).Str("roomId", roomID).Msg("Member left room")
	return nil
}

// ListByRoom returns all memberships of a room.
func (s *MemberRoomService) ListByRoom(ctx context.Context, roomID string) ([]core.MemberRoom, error) {
	return s.store.FindMemberRoomsByRoom(ctx, roomID)
}

// ListByMember returns all memberships of a member.
func (s *MemberRoomService) ListByMember(ctx context.Context, email string) ([]core.MemberRoom, error) {
	return s.store.FindMemberRoomsByMember(ctx, email)
}

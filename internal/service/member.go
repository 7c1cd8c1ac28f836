package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/LimHyeonGyu/wayferecicd/internal/storage"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// MemberService manages member records. Identity itself comes from an
// external auth layer; this only keeps the profile.
type MemberService struct {
	store storage.Store
	log   zerolog.Logger
}

// NewMemberService creates a MemberService.
func NewMemberService(store storage.Store, log zerolog.Logger) *MemberService {
	return &MemberService{store: store, log: log}
}

// Register creates or updates a member profile.
func (s *MemberService) Register(ctx context.Context, email, nickname string) (core.Member, error) {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return core.Member{}, core.NewError(core.CodeValidation, "a valid email is required")
	}

	m := core.Member{Email: email, Nickname: nickname}
	if err := s.store.SaveMember(ctx, &m); err != nil {
		return core.Member{}, err
	}
	s.log.Debug().Str("email", email).Msg("Member registered")
	return m, nil
}

// Get returns one member by email.
func (s *MemberService) Get(ctx context.Context, email string) (core.Member, error) {
	m, err := s.store.FindMember(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Member{}, core.NewError(core.CodeNotFound, "member not found")
		}
		return core.Member{}, err
	}
	return m, nil
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
)

var errPartyUnresolved = errors.New("party not resolvable")

// Party resolves a conversation counterparty to a display name.
type Party interface {
	DisplayName(ctx context.Context, id uuid.UUID) (string, error)
}

// userParty resolves ids as users. Mentors see their counterparties this way.
type userParty struct {
	users repository.UserRepository
}

func (p userParty) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := p.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", errPartyUnresolved
	}
	if err != nil {
		return "", err
	}
	return user.FullName(), nil
}

// mentorParty resolves ids as mentor profiles first and falls back to the
// mentor's own user id.
type mentorParty struct {
	mentors repository.MentorRepository
	users   repository.UserRepository
}

func (p mentorParty) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	profile, err := p.mentors.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		profile, err = p.mentors.FindByUserID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return "", errPartyUnresolved
	}
	if err != nil {
		return "", err
	}
	if profile.User != nil {
		return profile.User.FullName(), nil
	}
	return userParty{users: p.users}.DisplayName(ctx, profile.UserID)
}

func partyFor(store repository.Store, role string) Party {
	if role == models.RoleUser {
		return mentorParty{mentors: store.Mentors(), users: store.Users()}
	}
	return userParty{users: store.Users()}
}

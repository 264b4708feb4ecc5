// Package auth delegates credentials to the identity provider and keeps the
// user's profile row in step with it.
package auth

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/store"
)

type Identity interface {
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
}

type Profiles interface {
	FindProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile models.Profile) error
}

type Service struct {
	identity Identity
	profiles Profiles
}

func NewService(identity Identity, profiles Profiles) *Service {
	return &Service{identity: identity, profiles: profiles}
}

func profileFor(user models.User, fullName string) models.Profile {
	return models.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  fullName,
		Addresses: []models.Address{},
		CreatedAt: user.CreatedAt,
	}
}

// SignUp creates the credentials, then the profile. A failed profile insert is
// logged and does not fail the sign-up.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	session, err := s.identity.SignUp(ctx, email, password, fullName)
	if err != nil {
		log.Println("[AUTH] [ERROR] sign up failed:", err)
		return nil, err
	}

	if err := s.profiles.CreateProfile(ctx, profileFor(session.User, session.User.FullName)); err != nil {
		if store.IsDuplicateKey(err) {
			log.Println("[AUTH] [INFO] profile already exists:", session.User.ID.Hex())
		} else {
			log.Println("[AUTH] [ERROR] profile creation failed:", err)
		}
	}
	return session, nil
}

// SignIn verifies the credentials and makes sure a profile exists. Two
// concurrent first sign-ins may both try the insert; the loser sees a
// duplicate key and still signs in.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Println("[AUTH] [ERROR] sign in failed:", err)
		return nil, err
	}

	s.ensureProfile(ctx, session.User)
	return session, nil
}

func (s *Service) ensureProfile(ctx context.Context, user models.User) {
	existing, err := s.profiles.FindProfile(ctx, user.ID)
	if err != nil {
		log.Println("[AUTH] [ERROR] profile check failed:", err)
		return
	}
	if existing != nil {
		return
	}

	if err := s.profiles.CreateProfile(ctx, profileFor(user, user.FullName)); err != nil {
		if store.IsDuplicateKey(err) {
			log.Println("[AUTH] [INFO] profile created concurrently:", user.ID.Hex())
			return
		}
		log.Println("[AUTH] [ERROR] profile creation failed:", err)
	}
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.identity.SignOut(ctx, refreshToken)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return s.identity.Refresh(ctx, refreshToken)
}

func (s *Service) GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	return s.identity.GetUser(ctx, accessToken)
}

func (s *Service) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

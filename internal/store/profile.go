package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type ProfileStore struct {
	db *mongo.Database
}

func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) profiles() *mongo.Collection {
	return s.db.Collection(profilesCollection)
}

// FindProfile returns nil when no profile exists for the user.
func (s *ProfileStore) FindProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	found, err := lookupResult(s.profiles().FindOne(ctx, bson.M{"_id": userID}).Decode(&profile))
	if err != nil {
		log.Println("[PROFILE] [ERROR] profile lookup failed:", err)
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	if profile.Addresses == nil {
		profile.Addresses = []models.Address{}
	}
	return &profile, nil
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	profile, err := s.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// CreateProfile inserts the profile as is. A duplicate key error is returned
// unwrapped so callers can check it with IsDuplicateKey.
func (s *ProfileStore) CreateProfile(ctx context.Context, profile models.Profile) error {
	if profile.Addresses == nil {
		profile.Addresses = []models.Address{}
	}
	_, err := s.profiles().InsertOne(ctx, profile)
	return err
}

func (s *ProfileStore) saveAddresses(ctx context.Context, userID primitive.ObjectID, addresses []models.Address) error {
	res, err := s.profiles().UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"addresses": addresses},
	})
	if err != nil {
		log.Println("[ADDRESS] [ERROR] save addresses failed:", err)
		return fmt.Errorf("save addresses: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func clearDefault(addresses []models.Address) {
	for i := range addresses {
		addresses[i].IsDefault = false
	}
}

// AddAddress appends an address to the user's address book. The first address
// always becomes the default.
func (s *ProfileStore) AddAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) (*models.Address, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	address.ID = uuid.NewString()
	if len(profile.Addresses) == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		clearDefault(profile.Addresses)
	}

	addresses := append(profile.Addresses, address)
	if err := s.saveAddresses(ctx, userID, addresses); err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *ProfileStore) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, address models.Address) (*models.Address, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, existing := range profile.Addresses {
		if existing.ID == addressID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	if address.IsDefault {
		clearDefault(profile.Addresses)
	}
	address.ID = addressID
	profile.Addresses[index] = address

	if err := s.saveAddresses(ctx, userID, profile.Addresses); err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *ProfileStore) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	updated := make([]models.Address, 0, len(profile.Addresses))
	found := false
	for _, existing := range profile.Addresses {
		if existing.ID == addressID {
			found = true
			continue
		}
		updated = append(updated, existing)
	}
	if !found {
		return ErrNotFound
	}
	return s.saveAddresses(ctx, userID, updated)
}

// DefaultAddress picks the address flagged as default, falling back to the
// first one. It returns false for an empty address book.
func DefaultAddress(profile *models.Profile) (models.Address, bool) {
	if profile == nil || len(profile.Addresses) == 0 {
		return models.Address{}, false
	}
	for _, address := range profile.Addresses {
		if address.IsDefault {
			return address, true
		}
	}
	return profile.Addresses[0], true
}

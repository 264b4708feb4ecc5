package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

const (
	usersCollection         = "users"
	refreshTokensCollection = "refresh_tokens"
)

var (
	ErrMissingCredentials  = errors.New("email and password are required")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

// Session is what a successful sign-up, sign-in or refresh hands back.
type Session struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
}

// Provider is the identity provider: it owns credentials and sessions. Profile
// data lives elsewhere.
type Provider struct {
	db         *mongo.Database
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewProvider(db *mongo.Database, secret string, accessTTL, refreshTTL time.Duration) *Provider {
	return &Provider{
		db:         db,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}

	users := p.db.Collection(usersCollection)
	count, err := users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		log.Println("[AUTH] [ERROR] sign up lookup failed:", err)
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := p.now()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		log.Println("[AUTH] [ERROR] sign up insert failed:", err)
		return nil, fmt.Errorf("sign up: %w", err)
	}

	log.Println("[AUTH] [INFO] user registered:", email)
	return p.issueSession(ctx, user)
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}

	var user models.User
	err := p.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Println("[AUTH] [ERROR] sign in lookup failed:", err)
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Println("[AUTH] [ERROR] sign in invalid credentials")
		return nil, ErrInvalidCredentials
	}

	log.Println("[AUTH] [INFO] user signed in:", user.Email)
	return p.issueSession(ctx, user)
}

// SignOut revokes the refresh token. The access token stays valid until it
// expires.
func (p *Provider) SignOut(ctx context.Context, refreshToken string) error {
	plain := strings.TrimSpace(refreshToken)
	if plain == "" {
		return ErrInvalidRefreshToken
	}

	res, err := p.db.Collection(refreshTokensCollection).UpdateOne(ctx, bson.M{
		"token_hash": hashToken(plain),
		"revoked":    false,
	}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		log.Println("[AUTH] [ERROR] sign out failed:", err)
		return fmt.Errorf("sign out: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInvalidRefreshToken
	}
	return nil
}

// Refresh rotates a refresh token: the old one is revoked and points at its
// replacement.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	plain := strings.TrimSpace(refreshToken)
	if plain == "" {
		return nil, ErrInvalidRefreshToken
	}

	tokens := p.db.Collection(refreshTokensCollection)
	var token models.RefreshToken
	err := tokens.FindOne(ctx, bson.M{
		"token_hash": hashToken(plain),
		"revoked":    false,
	}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if p.now().After(token.ExpiresAt) {
		_, _ = tokens.UpdateByID(ctx, token.ID, bson.M{"$set": bson.M{"revoked": true}})
		return nil, ErrInvalidRefreshToken
	}

	user, err := p.findUser(ctx, token.UserID)
	if err != nil {
		return nil, err
	}

	session, refreshID, err := p.newSession(ctx, *user)
	if err != nil {
		return nil, err
	}

	_, _ = tokens.UpdateByID(ctx, token.ID, bson.M{
		"$set": bson.M{
			"revoked":           true,
			"replaced_by_token": refreshID,
		},
	})
	return session, nil
}

// GetUser resolves the user behind an access token.
func (p *Provider) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := ParseAccessToken(accessToken, p.secret)
	if err != nil {
		return nil, err
	}
	return p.findUser(ctx, userID)
}

func (p *Provider) findUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := p.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Println("[AUTH] [ERROR] user lookup failed:", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (p *Provider) issueSession(ctx context.Context, user models.User) (*Session, error) {
	session, _, err := p.newSession(ctx, user)
	return session, err
}

func (p *Provider) newSession(ctx context.Context, user models.User) (*Session, primitive.ObjectID, error) {
	now := p.now()
	accessToken, err := issueAccessToken(user.ID, user.Email, p.secret, p.accessTTL, now)
	if err != nil {
		log.Println("[AUTH] [ERROR] token generation failed:", err)
		return nil, primitive.NilObjectID, fmt.Errorf("issue access token: %w", err)
	}

	plainRefresh, err := generateRefreshString()
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("issue refresh token: %w", err)
	}

	refresh := models.RefreshToken{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		TokenHash: hashToken(plainRefresh),
		ExpiresAt: now.Add(p.refreshTTL),
		CreatedAt: now,
	}
	if _, err := p.db.Collection(refreshTokensCollection).InsertOne(ctx, refresh); err != nil {
		log.Println("[AUTH] [ERROR] refresh token insert failed:", err)
		return nil, primitive.NilObjectID, fmt.Errorf("store refresh token: %w", err)
	}

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: plainRefresh,
		ExpiresIn:    int64(p.accessTTL.Seconds()),
	}, refresh.ID, nil
}

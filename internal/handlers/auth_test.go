package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/auth"
	"storefront/internal/models"
)

func testSession() *auth.Session {
	return &auth.Session{
		User:         models.User{ID: primitive.NewObjectID(), Email: "asha@example.com", FullName: "Asha Rao"},
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    1200,
	}
}

func TestSignUpHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r := testRouter(primitive.NilObjectID)
		r.POST("/auth/signup", SignUp(&fakeAuth{session: testSession()}))

		w := doJSON(t, r, http.MethodPost, "/auth/signup", map[string]interface{}{
			"email": "asha@example.com", "password": "secret-pw", "fullName": "Asha Rao",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "access", body["accessToken"])
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("email taken", func(t *testing.T) {
		r := testRouter(primitive.NilObjectID)
		r.POST("/auth/signup", SignUp(&fakeAuth{err: auth.ErrEmailTaken}))

		w := doJSON(t, r, http.MethodPost, "/auth/signup", map[string]interface{}{
			"email": "asha@example.com", "password": "secret-pw", "fullName": "Asha Rao",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		r := testRouter(primitive.NilObjectID)
		r.POST("/auth/signup", SignUp(&fakeAuth{session: testSession()}))

		w := doJSON(t, r, http.MethodPost, "/auth/signup", map[string]interface{}{
			"email": "asha@example.com", "password": "x", "fullName": "Asha Rao",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignInHandlerInvalidCredentials(t *testing.T) {
	r := testRouter(primitive.NilObjectID)
	r.POST("/auth/signin", SignIn(&fakeAuth{err: auth.ErrInvalidCredentials}))

	w := doJSON(t, r, http.MethodPost, "/auth/signin", map[string]interface{}{
		"email": "asha@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOutHandlerPassesToken(t *testing.T) {
	svc := &fakeAuth{}
	r := testRouter(primitive.NilObjectID)
	r.POST("/auth/signout", SignOut(svc))

	w := doJSON(t, r, http.MethodPost, "/auth/signout", map[string]interface{}{"refreshToken": "plain"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "plain", svc.tokenArg)
}

func TestGetMeAndProfile(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &fakeAuth{
		user:    &models.User{ID: userID, Email: "asha@example.com"},
		profile: &models.Profile{ID: userID, Email: "asha@example.com", Addresses: []models.Address{}},
	}
	r := testRouter(userID)
	r.GET("/auth/me", GetMe(svc))
	r.GET("/profile", GetProfile(svc))

	w := doJSON(t, r, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "access-token", svc.tokenArg)

	w = doJSON(t, r, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"addresses":[]`)
}

func TestCreateAddressHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	book := &fakeAddressBook{profile: &models.Profile{ID: userID, Addresses: []models.Address{}}}
	r := testRouter(userID)
	r.POST("/profile/addresses", CreateAddress(book))

	w := doJSON(t, r, http.MethodPost, "/profile/addresses", map[string]interface{}{"fullName": "Asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/profile/addresses", map[string]interface{}{
		"fullName": "Asha Rao", "phone": "9800000000", "addressLine1": "12 MG Road",
		"city": "Bengaluru", "state": "KA", "postalCode": "560001",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, book.profile.Addresses, 1)
}

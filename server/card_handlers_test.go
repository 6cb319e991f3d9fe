package server

import (
	"fmt"
	"net/http"
	"testing"

	"mesto/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createCard posts a card through the API and returns it.
func createCard(t *testing.T, app *fiber.App, token string) models.Card {
	t.Helper()

	res := doJSON(t, app, http.MethodPost, "/cards", token, map[string]string{
		"name": "Kamchatka",
		"link": "https://example.com/kamchatka.png",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var card models.Card
	decodeBody(t, res, &card)
	require.NotZero(t, card.ID)
	return card
}

func TestCreateCard(t *testing.T) {
	srv, app := setupTestServer(t)
	user := signupUser(t, app, "a@b.com")
	token := tokenFor(t, srv, user.ID)

	t.Run("valid card", func(t *testing.T) {
		card := createCard(t, app, token)
		assert.Equal(t, "Kamchatka", card.Name)
		assert.Equal(t, user.ID, card.OwnerID)
		assert.Empty(t, card.Likes)
	})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"name too short", map[string]string{"name": "K", "link": "https://example.com/a.png"}},
		{"name missing", map[string]string{"link": "https://example.com/a.png"}},
		{"link not a URL", map[string]string{"name": "Kamchatka", "link": "nope"}},
		{"link missing", map[string]string{"name": "Kamchatka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := doJSON(t, app, http.MethodPost, "/cards", token, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
			_ = res.Body.Close()
		})
	}
}

func TestGetCards(t *testing.T) {
	srv, app := setupTestServer(t)
	user := signupUser(t, app, "a@b.com")
	token := tokenFor(t, srv, user.ID)

	createCard(t, app, token)
	createCard(t, app, token)

	res := doJSON(t, app, http.MethodGet, "/cards", token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var cards []models.Card
	decodeBody(t, res, &cards)
	assert.Len(t, cards, 2)
}

func TestDeleteCard_Ownership(t *testing.T) {
	srv, app := setupTestServer(t)
	owner := signupUser(t, app, "owner@b.com")
	other := signupUser(t, app, "other@b.com")
	ownerToken := tokenFor(t, srv, owner.ID)
	otherToken := tokenFor(t, srv, other.ID)

	card := createCard(t, app, ownerToken)
	cardPath := fmt.Sprintf("/cards/%d", card.ID)

	t.Run("non-owner is refused and the card survives", func(t *testing.T) {
		res := doJSON(t, app, http.MethodDelete, cardPath, otherToken, nil)
		require.Equal(t, fiber.StatusForbidden, res.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, res, &body)
		assert.Equal(t, "Insufficient rights to delete this card", body.Error)

		// Card still listed
		res = doJSON(t, app, http.MethodGet, "/cards", ownerToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)
		var cards []models.Card
		decodeBody(t, res, &cards)
		assert.Len(t, cards, 1)
	})

	t.Run("owner deletes and gets the record back", func(t *testing.T) {
		res := doJSON(t, app, http.MethodDelete, cardPath, ownerToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var deleted models.Card
		decodeBody(t, res, &deleted)
		assert.Equal(t, card.ID, deleted.ID)

		// A second delete reports not-found
		res = doJSON(t, app, http.MethodDelete, cardPath, ownerToken, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
		_ = res.Body.Close()
	})
}

func TestDeleteCard_Identifiers(t *testing.T) {
	srv, app := setupTestServer(t)
	user := signupUser(t, app, "a@b.com")
	token := tokenFor(t, srv, user.ID)

	t.Run("malformed", func(t *testing.T) {
		res := doJSON(t, app, http.MethodDelete, "/cards/not-an-id", token, nil)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("absent", func(t *testing.T) {
		res := doJSON(t, app, http.MethodDelete, "/cards/99999", token, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
		_ = res.Body.Close()
	})
}

func TestLikeCard(t *testing.T) {
	srv, app := setupTestServer(t)
	owner := signupUser(t, app, "owner@b.com")
	liker := signupUser(t, app, "liker@b.com")
	ownerToken := tokenFor(t, srv, owner.ID)
	likerToken := tokenFor(t, srv, liker.ID)

	card := createCard(t, app, ownerToken)
	likesPath := fmt.Sprintf("/cards/%d/likes", card.ID)

	t.Run("any authenticated user may like", func(t *testing.T) {
		res := doJSON(t, app, http.MethodPut, likesPath, likerToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var got models.Card
		decodeBody(t, res, &got)
		assert.Equal(t, []uint{liker.ID}, got.Likes)
	})

	t.Run("liking again is a no-op", func(t *testing.T) {
		res := doJSON(t, app, http.MethodPut, likesPath, likerToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var got models.Card
		decodeBody(t, res, &got)
		assert.Equal(t, []uint{liker.ID}, got.Likes)
	})

	t.Run("unlike removes the like", func(t *testing.T) {
		res := doJSON(t, app, http.MethodDelete, likesPath, likerToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var got models.Card
		decodeBody(t, res, &got)
		assert.Empty(t, got.Likes)
	})

	t.Run("unliking again is a no-op", func(t *testing.T) {
		res := doJSON(t, app, http.MethodDelete, likesPath, likerToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var got models.Card
		decodeBody(t, res, &got)
		assert.Empty(t, got.Likes)
	})

	t.Run("absent card", func(t *testing.T) {
		res := doJSON(t, app, http.MethodPut, "/cards/99999/likes", likerToken, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("malformed card id", func(t *testing.T) {
		res := doJSON(t, app, http.MethodPut, "/cards/nope/likes", likerToken, nil)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		_ = res.Body.Close()
	})
}

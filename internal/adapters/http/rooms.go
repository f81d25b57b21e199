package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/store"
)

// RoomsAPI is the thin CRUD glue around persisted room metadata. The sync
// engine only consumes the owner id it records here.
type RoomsAPI struct {
	Store *store.Store
}

type createRoomReq struct {
	Name string `json:"name"`
}

func (a *RoomsAPI) Create(c *gin.Context) {
	var req createRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
		return
	}

	ownerID := ""
	if id, ok := identityFrom(c); ok {
		ownerID = string(id.ID)
	}

	roomID := domain.RoomID(newRoomCode())
	if err := a.Store.CreateRoom(c.Request.Context(), roomID, req.Name, ownerID); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"roomId": roomID, "name": req.Name, "ownerId": ownerID})
}

func (a *RoomsAPI) Get(c *gin.Context) {
	roomID := domain.RoomID(c.Param("id"))
	r, err := a.Store.GetRoom(c.Request.Context(), roomID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such room"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("get room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// newRoomCode returns a short join code like "9F3A1C".
func newRoomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

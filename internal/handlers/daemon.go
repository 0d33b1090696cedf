package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
	"github.com/internal-hackathon-7/int-hack-7/internal/store"
)

// The daemon endpoints serve the local agent running next to a member's
// git checkout: room lookups by identity, joining a room on behalf of an
// email address, and pushing/fetching diff activity records. They mutate
// durable membership only; live membership views update the next time the
// room is touched over the realtime protocol.

type roomsJoinedRequest struct {
	GoogleID string `json:"googleId" binding:"required"`
}

// RoomsJoined lists every room a member belongs to, with member sets.
func (h *Handlers) RoomsJoined(c *gin.Context) {
	var req roomsJoinedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "googleId is required"})
		return
	}

	ctx := c.Request.Context()
	roomIDs, err := h.rooms.RoomsWithMember(ctx, req.GoogleID)
	if err != nil {
		log.Error().Err(err).Str("caller", req.GoogleID).Msg("rooms lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if len(roomIDs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No rooms found for this member"})
		return
	}

	rooms := make([]models.RoomWithMembers, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		members, err := h.rooms.Members(ctx, roomID)
		if errors.Is(err, store.ErrRoomNotFound) {
			// Raced with a deletion; skip.
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("members lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		rooms = append(rooms, models.RoomWithMembers{RoomID: roomID, Members: members})
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

type joinRoomRequest struct {
	RoomID string `json:"roomId" binding:"required"`
	Gmail  string `json:"gmail" binding:"required"`
}

// JoinRoom adds the member behind an email address to a room. Idempotent
// on repeat calls, 404 when the user or the room does not exist.
func (h *Handlers) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and gmail are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.UserByEmail(ctx, req.Gmail)
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found for this Gmail"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("email", req.Gmail).Msg("user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.rooms.AddMember(ctx, req.RoomID, user.GoogleID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		log.Error().Err(err).Str("room", req.RoomID).Str("caller", user.GoogleID).Msg("daemon join failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	members, err := h.rooms.Members(ctx, req.RoomID)
	if err != nil {
		log.Error().Err(err).Str("room", req.RoomID).Msg("members lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Info().Str("room", req.RoomID).Str("caller", user.GoogleID).Msg("daemon added member to room")
	c.JSON(http.StatusOK, gin.H{
		"message": "Member added successfully",
		"room":    models.RoomWithMembers{RoomID: req.RoomID, Members: members},
	})
}

// AddDiff stores one activity record for a member.
func (h *Handlers) AddDiff(c *gin.Context) {
	var blob models.DiffBlob
	if err := c.ShouldBindJSON(&blob); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if blob.RoomID == "" || blob.MemberID == "" || blob.ProjectName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "roomId, memberId, and projectName are required fields.",
		})
		return
	}

	if err := h.diffs.AddDiff(c.Request.Context(), blob); err != nil {
		log.Error().Err(err).Str("room", blob.RoomID).Str("member", blob.MemberID).Msg("diff store failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "DiffBlob added successfully",
		"diffBlob": blob,
	})
}

type memberDiffsRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	GoogleID string `json:"googleId" binding:"required"`
}

// MemberDiffs returns a member's activity records, newest first.
func (h *Handlers) MemberDiffs(c *gin.Context) {
	var req memberDiffsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing roomId or googleId"})
		return
	}

	blobs, err := h.diffs.MemberDiffs(c.Request.Context(), req.RoomID, req.GoogleID)
	if err != nil {
		log.Error().Err(err).Str("room", req.RoomID).Str("member", req.GoogleID).Msg("diff fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch diff data"})
		return
	}
	c.JSON(http.StatusOK, blobs)
}

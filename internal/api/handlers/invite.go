package handlers

import (
	"net/http"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InviteHandler handles HTTP requests for group invitations
type InviteHandler struct {
	service service.InviteServiceInterface
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(service service.InviteServiceInterface) *InviteHandler {
	return &InviteHandler{service: service}
}

// SendInvite invites an email address into a group
// @Summary Send an invitation
// @Description Invite a registered user's email into a group. Leader only.
// @Tags invites
// @Accept json
// @Produce json
// @Param invite body service.SendInviteRequest true "Invitation data"
// @Success 201 {object} service.InviteResponse "Invitation sent"
// @Failure 400 {object} map[string]interface{} "Invalid request or duplicate invitation"
// @Failure 403 {object} map[string]interface{} "Not the group leader"
// @Failure 404 {object} map[string]interface{} "Group or user not found"
// @Security BearerAuth
// @Router /invites [post]
func (h *InviteHandler) SendInvite(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req service.SendInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.service.Send(actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// GetPendingInvites lists the authenticated user's pending invitations
// @Summary List pending invitations
// @Tags invites
// @Accept json
// @Produce json
// @Success 200 {array} service.InviteResponse "Pending invitations"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Security BearerAuth
// @Router /invites/pending [get]
func (h *InviteHandler) GetPendingInvites(c *gin.Context) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	invites, err := h.service.GetPending(claims)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invites)
}

// AcceptInvite accepts a pending invitation and joins the group
// @Summary Accept an invitation
// @Description Accept a pending invitation addressed to the authenticated user
// @Tags invites
// @Accept json
// @Produce json
// @Param id path string true "Invitation ID (UUID)"
// @Success 200 {object} service.GroupResponse "Joined group"
// @Failure 400 {object} map[string]interface{} "Invitation already handled or already a member"
// @Failure 404 {object} map[string]interface{} "No valid invitation found"
// @Security BearerAuth
// @Router /invites/{id}/accept [post]
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	group, err := h.service.Accept(claims, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// RejectInvite rejects a pending invitation
// @Summary Reject an invitation
// @Description Reject a pending invitation addressed to the authenticated user
// @Tags invites
// @Accept json
// @Produce json
// @Param id path string true "Invitation ID (UUID)"
// @Success 200 {object} map[string]interface{} "Invitation rejected"
// @Failure 400 {object} map[string]interface{} "Invitation already handled"
// @Failure 404 {object} map[string]interface{} "No valid invitation found"
// @Security BearerAuth
// @Router /invites/{id}/reject [post]
func (h *InviteHandler) RejectInvite(c *gin.Context) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	if err := h.service.Reject(claims, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation rejected"})
}

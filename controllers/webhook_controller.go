package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"orgdrive/models"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	SignatureHeader = "X-Webhook-Signature"
	signaturePrefix = "sha256="

	maxWebhookBody = 1 << 20
)

const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventMembershipCreated = "organizationMembership.created"
	EventMembershipUpdated = "organizationMembership.updated"
)

type IdentitySync interface {
	EnsureCreated(ctx context.Context, tokenIdentifier string, profile models.Profile) error
	UpdateProfile(ctx context.Context, tokenIdentifier string, profile models.Profile) error
	AddMembership(ctx context.Context, tokenIdentifier, orgID string, role models.Role) error
	SetMembershipRole(ctx context.Context, tokenIdentifier, orgID string, role models.Role) error
}

type IdentityEvent struct {
	Type string            `json:"type" binding:"required"`
	Data IdentityEventData `json:"data"`
}

type IdentityEventData struct {
	TokenIdentifier string `json:"tokenIdentifier" binding:"required"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	OrgID           string `json:"orgId"`
	Role            string `json:"role"`
}

// WebhookController receives user and membership events from the identity
// provider. Payloads are authenticated with an HMAC-SHA256 of the raw body.
type WebhookController struct {
	identity IdentitySync
	secret   []byte
}

func NewWebhookController(identity IdentitySync, secret string) *WebhookController {
	return &WebhookController{identity: identity, secret: []byte(secret)}
}

func (wc *WebhookController) HandleIdentityEvent(c *gin.Context) {
	log := utils.Component("webhook")

	body, err := readLimited(c, maxWebhookBody)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read request body", nil)
		return
	}

	if !wc.validSignature(c.GetHeader(SignatureHeader), body) {
		log.Warn("rejected webhook with invalid signature")
		utils.UnauthorizedResponse(c, "Invalid webhook signature")
		return
	}

	var event IdentityEvent
	if err := binding.JSON.BindBody(body, &event); err != nil {
		utils.BadRequestResponse(c, "Invalid webhook payload", err.Error())
		return
	}

	ctx := c.Request.Context()
	data := event.Data
	profile := models.Profile{Name: data.Name, Image: data.Image}

	switch event.Type {
	case EventUserCreated:
		err = wc.identity.EnsureCreated(ctx, data.TokenIdentifier, profile)
	case EventUserUpdated:
		err = wc.identity.UpdateProfile(ctx, data.TokenIdentifier, profile)
	case EventMembershipCreated, EventMembershipUpdated:
		if data.OrgID == "" {
			utils.BadRequestResponse(c, "Membership events require orgId", nil)
			return
		}
		role := models.ParseRole(data.Role)
		if event.Type == EventMembershipCreated {
			err = wc.identity.AddMembership(ctx, data.TokenIdentifier, data.OrgID, role)
		} else {
			err = wc.identity.SetMembershipRole(ctx, data.TokenIdentifier, data.OrgID, role)
		}
	default:
		log.WithField("type", event.Type).Debug("ignoring unsupported webhook event")
		c.JSON(http.StatusOK, utils.APIResponse{Success: true, Message: "Event ignored"})
		return
	}

	if err != nil {
		respondError(c, err)
		return
	}

	log.WithField("type", event.Type).Info("webhook processed")
	utils.SuccessResponse(c, "Event processed", nil)
}

func (wc *WebhookController) validSignature(header string, body []byte) bool {
	if !strings.HasPrefix(header, signaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(wc.secret, body))
}

// Sign returns the HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}

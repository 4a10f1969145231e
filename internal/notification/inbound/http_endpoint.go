package inbound

import (
	"github.com/shandysiswandi/safemeet/internal/notification/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

const headerIdempotencyKey = "Idempotency-Key"

type HTTPEndpoint struct {
	uc uc
}

// RegisterToken stores the device token used to reach an identity.
// @Summary Register delivery token
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body RegisterTokenRequest true "Register token payload"
// @Success 200 {object} router.successResponse "Token registered"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/register-token [post]
func (h *HTTPEndpoint) RegisterToken(r *router.Request) (any, error) {
	var req RegisterTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RegisterToken(r.Context(), usecase.RegisterTokenInput{
		Identifier: req.Identifier,
		Token:      req.Token,
	}); err != nil {
		return nil, err
	}

	return RegisterTokenResponse{}, nil
}

// SendNotification pushes a message to a raw token or to an identity's stored token.
// @Summary Send notification
// @Description A repeated Idempotency-Key replays the first result without sending again.
// @Tags Notification
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Deduplication key"
// @Param request body SendNotificationRequest true "Send notification payload"
// @Success 200 {object} router.successResponse{data=SendNotificationResponse} "Notification sent"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 404 {object} router.errorResponse "Recipient not found"
// @Failure 409 {object} router.errorResponse "Idempotency key in progress"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Failure 503 {object} router.errorResponse "Notification provider unavailable"
// @Router /api/send-notification [post]
func (h *HTTPEndpoint) SendNotification(r *router.Request) (any, error) {
	var req SendNotificationRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	res, err := h.uc.SendNotification(r.Context(), usecase.SendNotificationInput{
		Identifier:     req.Identifier,
		Token:          req.Token,
		Title:          req.Title,
		Body:           req.Body,
		Data:           req.Data,
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return SendNotificationResponse{MessageID: res.MessageID, replayed: res.Replayed}, nil
}

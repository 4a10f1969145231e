package inbound

import (
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Health reports collaborator reachability. It always answers 200.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} router.successResponse{data=HealthResponse} "Server is running"
// @Router /api/health [get]
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	report := h.uc.Check(r.Context())

	return HealthResponse{
		Status:               string(report.Status),
		Database:             string(report.Database),
		Cache:                string(report.Cache),
		NotificationProvider: string(report.NotificationProvider),
		Timestamp:            report.Timestamp,
	}, nil
}

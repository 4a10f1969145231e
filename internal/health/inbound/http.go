package inbound

import (
	"context"

	"github.com/shandysiswandi/safemeet/internal/health/entity"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

type uc interface {
	Check(ctx context.Context) *entity.Report
}

// PublicRoutes are served without a bearer token.
var PublicRoutes = []string{
	"GET /api/health",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/health", end.Health)
}

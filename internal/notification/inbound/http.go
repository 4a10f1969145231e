package inbound

import (
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

// PublicRoutes are served without a bearer token.
var PublicRoutes = []string{
	"POST /api/register-token",
	"POST /api/send-notification",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/register-token", end.RegisterToken)
	r.POST("/api/send-notification", end.SendNotification)
}

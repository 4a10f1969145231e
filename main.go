package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/safemeet/internal/app"
)

const shutdownTimeout = 15 * time.Second

// @title           Safemeet API
// @version         1.0
// @description     Safemeet provides OTP onboarding, credential login and push notification APIs.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
}

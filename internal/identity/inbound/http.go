package inbound

import (
	"context"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/identity/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

type uc interface {
	OTPSend(ctx context.Context, in usecase.OTPSendInput) (*usecase.OTPSendOutput, error)
	OTPVerify(ctx context.Context, in usecase.OTPVerifyInput) error

	Signup(ctx context.Context, in usecase.SignupInput) error
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	Profile(ctx context.Context) (*entity.Profile, error)
}

// PublicRoutes are served without a bearer token.
var PublicRoutes = []string{
	"POST /api/send-otp",
	"POST /api/verify-otp",
	"POST /api/signup",
	"POST /api/login",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// OTP
	r.POST("/api/send-otp", end.SendOTP)
	r.POST("/api/verify-otp", end.VerifyOTP)

	// Credentials
	r.POST("/api/signup", end.Signup)
	r.POST("/api/login", end.Login)

	// need authenticated
	r.GET("/api/profile", end.Profile)
}

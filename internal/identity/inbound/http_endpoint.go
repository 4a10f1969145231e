package inbound

import (
	"github.com/shandysiswandi/safemeet/internal/identity/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the OTP and credential workflows.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a one-time code and delivers it by email or push.
// @Summary Send OTP
// @Description Generates a 6 digit code for the identifier and delivers it. Phone identifiers need a delivery token.
// @Tags Identity, OTP
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Send OTP payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/send-otp [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OTPSend(r.Context(), usecase.OTPSendInput{
		Identifier:    req.Identifier,
		DeliveryToken: req.DeliveryToken,
	})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{
		Channel:          resp.Channel.String(),
		ExpiresInSeconds: int64(resp.ExpiresIn.Seconds()),
		Code:             resp.Code,
	}, nil
}

// VerifyOTP checks a code. Any failed check answers success=false.
// @Summary Verify OTP
// @Tags Identity, OTP
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify OTP payload"
// @Success 200 {object} router.successResponse "OTP verified or rejected"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/verify-otp [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
		Identifier: req.Identifier,
		Code:       req.Code,
	}); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{}, nil
}

// Signup sets the password of a verified identity.
// @Summary Sign up
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup payload"
// @Success 200 {object} router.successResponse "Signup successful or rejected"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/signup [post]
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Identifier:    req.Identifier,
		Password:      req.Password,
		FullName:      req.FullName,
		Phone:         req.Phone,
		DeliveryToken: req.DeliveryToken,
	}); err != nil {
		return nil, err
	}

	return SignupResponse{}, nil
}

// Login authenticates a verified identity and returns an access token.
// @Summary Log in
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Login successful or rejected"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Identifier:    req.Identifier,
		Password:      req.Password,
		DeliveryToken: req.DeliveryToken,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: resp.AccessToken, TokenType: "Bearer"}, nil
}

// Profile returns the authenticated identity.
// @Summary Current profile
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	p, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:          p.ID,
		Identifier:  p.Identifier,
		FullName:    p.FullName,
		Phone:       p.Phone,
		State:       p.State.String(),
		HasPassword: p.HasPassword,
		HasDevice:   p.HasDevice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

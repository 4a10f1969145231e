package inbound

import "time"

type SendOTPRequest struct {
	Identifier    string `json:"identifier"`
	DeliveryToken string `json:"deliveryToken"`
}

type SendOTPResponse struct {
	Channel          string `json:"channel"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
	Code             string `json:"code,omitempty"`
}

func (SendOTPResponse) Message() string {
	return "OTP sent"
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

type VerifyOTPResponse struct{}

func (VerifyOTPResponse) Message() string {
	return "OTP verified"
}

type SignupRequest struct {
	Identifier    string `json:"identifier"`
	Password      string `json:"password"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	DeliveryToken string `json:"deliveryToken"`
}

type SignupResponse struct{}

func (SignupResponse) Message() string {
	return "Signup successful"
}

type LoginRequest struct {
	Identifier    string `json:"identifier"`
	Password      string `json:"password"`
	DeliveryToken string `json:"deliveryToken"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

func (LoginResponse) Message() string {
	return "Login successful"
}

type ProfileResponse struct {
	ID          int64     `json:"id,string"`
	Identifier  string    `json:"identifier"`
	FullName    string    `json:"fullName,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	State       string    `json:"verificationState"`
	HasPassword bool      `json:"hasPassword"`
	HasDevice   bool      `json:"hasDevice"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

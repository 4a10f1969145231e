package entity

import "fmt"

// DeliveryResult is what the push provider acknowledged.
type DeliveryResult struct {
	MessageID string `json:"messageId"`
	// Replayed is set when the result was served from the idempotency store.
	Replayed bool `json:"-"`
}

// Confirmation is a best-effort push sent after an identity event.
type Confirmation struct {
	Kind  string
	Title string
	Body  string
}

// Data returns the provider payload attached to the confirmation.
func (c Confirmation) Data() map[string]string {
	return map[string]string{"type": c.Kind}
}

func OTPSentConfirmation() Confirmation {
	return Confirmation{
		Kind:  "otp_sent",
		Title: "Verification Code Sent",
		Body:  "A verification code has been sent to your email.",
	}
}

func SignupConfirmation(fullName string) Confirmation {
	body := "Welcome to Safemeet!"
	if fullName != "" {
		body = fmt.Sprintf("Welcome to Safemeet, %s!", fullName)
	}

	return Confirmation{Kind: "signup", Title: "Signup Successful", Body: body}
}

func LoginConfirmation() Confirmation {
	return Confirmation{
		Kind:  "login",
		Title: "Login Successful",
		Body:  "You have successfully logged in.",
	}
}

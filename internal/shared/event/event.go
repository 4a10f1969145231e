// Package event holds the topics and payloads that identity publishes and
// notification consumes.
package event

// HeaderCorrelationID carries the request correlation ID across the bus.
const HeaderCorrelationID string = "cID"

const OTPIssuedDestination string = "identity_otp_issued"
const OTPIssuedConsumerNotification string = "identity_otp_issued_notification"

const SignupCompletedDestination string = "identity_signup_completed"
const SignupCompletedConsumerNotification string = "identity_signup_completed_notification"

const LoginSucceededDestination string = "identity_login_succeeded"
const LoginSucceededConsumerNotification string = "identity_login_succeeded_notification"

// Channel values for OTPIssuedMessage.
const (
	ChannelEmail string = "email"
	ChannelPhone string = "phone"
)

type OTPIssuedMessage struct {
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
}

type SignupCompletedMessage struct {
	Identifier string `json:"identifier"`
	FullName   string `json:"full_name"`
}

type LoginSucceededMessage struct {
	Identifier string `json:"identifier"`
}

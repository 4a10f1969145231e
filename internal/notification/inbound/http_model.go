package inbound

type RegisterTokenRequest struct {
	Identifier string `json:"identifier"`
	Token      string `json:"token"`
}

type RegisterTokenResponse struct{}

func (RegisterTokenResponse) Message() string {
	return "Token registered"
}

type SendNotificationRequest struct {
	Identifier string            `json:"identifier"`
	Token      string            `json:"token"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data"`
}

type SendNotificationResponse struct {
	MessageID string `json:"messageId"`
	replayed  bool
}

func (r SendNotificationResponse) Message() string {
	if r.replayed {
		return "Notification already sent"
	}
	return "Notification sent"
}

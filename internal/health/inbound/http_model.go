package inbound

import "time"

type HealthResponse struct {
	Status               string    `json:"status"`
	Database             string    `json:"database"`
	Cache                string    `json:"cache"`
	NotificationProvider string    `json:"notificationProvider"`
	Timestamp            time.Time `json:"timestamp"`
}

func (HealthResponse) Message() string {
	return "Server is running"
}

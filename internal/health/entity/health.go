package entity

import "time"

type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
)

type Connectivity string

const (
	Connected    Connectivity = "Connected"
	Disconnected Connectivity = "Disconnected"
)

type Availability string

const (
	Available   Availability = "Available"
	Unavailable Availability = "Unavailable"
)

// Report is a snapshot of the collaborators the service depends on.
// A disabled push provider does not degrade the service.
type Report struct {
	Status               Status
	Database             Connectivity
	Cache                Connectivity
	NotificationProvider Availability
	Timestamp            time.Time
}

func ConnectivityOf(err error) Connectivity {
	if err != nil {
		return Disconnected
	}
	return Connected
}

func AvailabilityOf(enabled bool) Availability {
	if enabled {
		return Available
	}
	return Unavailable
}

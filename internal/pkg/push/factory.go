package push

import (
	"context"
	"fmt"
	"strings"
)

// Driver names accepted by NewFromDriver.
const (
	DriverFCM      = "fcm"
	DriverLog      = "log"
	DriverDisabled = "disabled"
)

// NewFromDriver builds the Push implementation selected by driver. An empty
// driver disables push.
func NewFromDriver(ctx context.Context, driver string, cfg FCMConfig, gen generator) (Push, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverDisabled:
		return Disabled{}, nil
	case DriverLog:
		return NewLog(gen), nil
	case DriverFCM:
		return NewFCM(ctx, cfg)
	default:
		return nil, fmt.Errorf("push: unknown driver %q", driver)
	}
}

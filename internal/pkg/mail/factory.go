package mail

import (
	"fmt"
	"strings"
)

// Driver names accepted by New.
const (
	DriverSMTP   = "smtp"
	DriverGomail = "gomail"
	DriverLog    = "log"
)

// New builds the Mail implementation selected by driver.
func New(driver string, cfg SMTPConfig) (Mail, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSMTP:
		return NewSMTP(cfg)
	case DriverGomail:
		return NewGomail(cfg)
	case DriverLog:
		return NewLog(cfg.From), nil
	default:
		return nil, fmt.Errorf("mail: unknown driver %q", driver)
	}
}

package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/AntoineGS/dynform/internal/form"
)

// Validate checks every key and returns a *ValidationErrors listing each
// invalid one, or nil.
func (c *Config) Validate() error {
	ve := &ValidationErrors{}

	if _, err := form.ParseIDPolicy(c.Form.IDPolicy); err != nil {
		ve.Add(NewFieldError("form", "id_policy", c.Form.IDPolicy, err))
	}

	if strings.TrimSpace(c.Notification.Title) == "" {
		ve.Add(NewFieldError("notification", "title", c.Notification.Title,
			fmt.Errorf("%w: title is blank", ErrInvalidConfig)))
	}

	if c.History.Keep < 0 {
		ve.Add(NewFieldError("history", "keep", strconv.Itoa(c.History.Keep),
			fmt.Errorf("%w: keep must not be negative", ErrInvalidConfig)))
	}

	if strings.ContainsRune(c.History.Path, '\x00') {
		ve.Add(NewFieldError("history", "path", c.History.Path,
			fmt.Errorf("%w: path contains null byte", ErrInvalidConfig)))
	}

	if _, _, err := net.SplitHostPort(c.Web.Addr); err != nil {
		ve.Add(NewFieldError("web", "addr", c.Web.Addr,
			fmt.Errorf("%w: %v", ErrInvalidConfig, err)))
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigError reports an out-of-range or malformed configuration value.
// It is fatal: the run aborts before any work begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration against its field constraints and
// returns the first violation as a *ConfigError.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("workerspec", validWorkerSpec); err != nil {
		return fmt.Errorf("registering workers validation: %w", err)
	}

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{Field: fieldPath(fe), Reason: constraintReason(fe)}
	}
	return fmt.Errorf("validating configuration: %w", err)
}

// validWorkerSpec accepts "automatic" or a positive integer.
func validWorkerSpec(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s == WorkersAutomatic {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// fieldPath maps a validator namespace to the path a user would write
// in the configuration file. The embedded HTTPConfig is flattened there,
// so its type name is dropped from the reported path.
func fieldPath(fe validator.FieldError) string {
	path := strings.TrimPrefix(fe.Namespace(), "Config.")
	return strings.Replace(path, "HTTPConfig.", "", 1)
}

func constraintReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "workerspec":
		return `must be "automatic" or a positive integer`
	case "required":
		return "must not be empty"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("violates %q", fe.Tag())
	}
}

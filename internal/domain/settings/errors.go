package settings

import "errors"

var ErrUnavailable = errors.New("payroll settings not configured")

package admin

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")

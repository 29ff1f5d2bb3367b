package network

import "errors"

var ErrInvalidCheckAddress = errors.New("invalid reachability check address")

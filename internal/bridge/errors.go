package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected  = errors.New("bridge: not connected")
	ErrAlreadyOpen   = errors.New("bridge: connection already open")
	ErrNotAdvertised = errors.New("bridge: topic not advertised")
)

// ConnectionError reports that the transport to Address could not be
// established or lost its socket.
type ConnectionError struct {
	Address Address
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

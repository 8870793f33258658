package bridge

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Address is where the middleware listens, rendered as scheme://host:port.
type Address struct {
	Scheme string
	Host   string
	Port   int
}

func (a Address) String() string {
	return a.Scheme + "://" + net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// PortText is the port as shown in the settings editor.
func (a Address) PortText() string {
	return strconv.Itoa(a.Port)
}

// ParseAddress is the inverse of Address.String.
func ParseAddress(s string) (Address, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return Address{}, fmt.Errorf("parse address %q: want scheme://host:port", s)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil || port < 1 || port > 65535 {
		return Address{}, fmt.Errorf("parse address %q: invalid port %q", s, u.Port())
	}
	return Address{Scheme: u.Scheme, Host: u.Hostname(), Port: port}, nil
}

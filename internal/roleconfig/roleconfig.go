// Package roleconfig discriminates a master instance from a replica
// instance based on startup arguments, and carries the listening port
// and, for a replica, the upstream master endpoint.
package roleconfig

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Role is which instance variant a Config selects.
type Role int

const (
	RoleMaster Role = iota
	RoleReplica
)

// defaultPort is used when --port is absent.
const defaultPort = 6379

// Config is either Master{port} or Replica{port, upstream_host,
// upstream_port}, discriminated by Role.
type Config struct {
	Role Role
	Port int

	UpstreamHost string
	UpstreamPort int
}

// FromFlags builds a Config from the parsed --port and --replicaof
// flag values. port is the --port value (already defaulted to 6379 by
// the flag definition); replicaof is the raw "<host> <port>" string,
// empty when --replicaof was not given.
func FromFlags(port int, replicaof string) (*Config, error) {
	cfg := &Config{Role: RoleMaster, Port: port}
	if port <= 0 {
		cfg.Port = defaultPort
	}

	replicaof = strings.TrimSpace(replicaof)
	if replicaof == "" {
		return cfg, nil
	}

	tokens := strings.Fields(replicaof)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("--replicaof expects \"<host> <port>\", got %q", replicaof)
	}

	host, err := resolveHost(tokens[0])
	if err != nil {
		return nil, err
	}

	upstreamPort, err := strconv.Atoi(tokens[1])
	if err != nil || upstreamPort < 1024 || upstreamPort > 65535 {
		return nil, fmt.Errorf("--replicaof port %q must be an integer between 1024 and 65535", tokens[1])
	}

	cfg.Role = RoleReplica
	cfg.UpstreamHost = host
	cfg.UpstreamPort = upstreamPort
	return cfg, nil
}

// resolveHost maps "localhost" to its loopback address and otherwise
// requires a parseable IPv4 or IPv6 address.
func resolveHost(host string) (string, error) {
	if host == "localhost" {
		return "127.0.0.1", nil
	}
	if net.ParseIP(host) == nil {
		return "", fmt.Errorf("--replicaof host %q is not a valid IPv4/IPv6 address", host)
	}
	return host, nil
}

// IsReplica reports whether cfg selects the replica variant.
func (c *Config) IsReplica() bool { return c.Role == RoleReplica }

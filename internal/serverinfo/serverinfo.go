// Package serverinfo holds the small, read-mostly (role, replication
// id, offset) tuple every connection handler consults when answering
// INFO and PSYNC.
package serverinfo

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Role is the instance's replication role.
type Role int

const (
	RoleMaster Role = iota
	RoleReplica
)

// wireRole is how Role is spelled in INFO output: "slave" for replica,
// for compatibility with the canonical Redis INFO field name.
func (r Role) wireRole() string {
	if r == RoleReplica {
		return "slave"
	}
	return "master"
}

// ServerInfo is the (role, replication_id, offset) tuple created once
// per instance and treated as read-mostly thereafter. It is guarded by
// the same mutex discipline as the keyspace; the only mutation in the
// core is SetHandshakeResult, which a replica calls once during its
// startup handshake.
type ServerInfo struct {
	mu            sync.RWMutex
	role          Role
	replicationID string
	offset        int
}

// NewMaster builds the ServerInfo for a master instance: a freshly
// generated replication id and offset 0.
func NewMaster() *ServerInfo {
	return &ServerInfo{role: RoleMaster, replicationID: generateReplicationID(), offset: 0}
}

// NewReplica builds the ServerInfo for a replica instance before its
// handshake completes: the "?" replication id and offset -1 sentinels.
func NewReplica() *ServerInfo {
	return &ServerInfo{role: RoleReplica, replicationID: "?", offset: -1}
}

// generateReplicationID produces a 40-hex-character id, matching the
// length convention of Redis's own replication ids, using two UUIDv4s
// with their dashes stripped rather than the literal placeholder
// "Master" a naive implementation might fall back on.
func generateReplicationID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:40]
}

// Role returns the instance's role.
func (s *ServerInfo) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// ReplicationID returns the current replication id.
func (s *ServerInfo) ReplicationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replicationID
}

// Offset returns the current replication offset.
func (s *ServerInfo) Offset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// SetHandshakeResult records the replication id and offset a replica
// learns from its master's FULLRESYNC reply.
func (s *ServerInfo) SetHandshakeResult(replicationID string, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replicationID = replicationID
	s.offset = offset
}

// ReplicationSection renders the "replication" INFO section: exactly
// the role/master_replid/master_repl_offset lines, in that order.
func (s *ServerInfo) ReplicationSection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("role:%s\r\nmaster_replid:%s\r\nmaster_repl_offset:%d\r\n", s.role.wireRole(), s.replicationID, s.offset)
}

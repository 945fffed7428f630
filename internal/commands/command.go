// Package commands maps decoded RESP frames to the small, closed set of
// typed commands this server accepts, and encodes commands back to
// bytes for the replica's outbound handshake traffic.
package commands

import (
	"time"

	"github.com/florian-trehaut/redis-server/internal/resp"
)

// Kind tags the variant a Command carries. The set is closed and small;
// callers are expected to switch over every case.
type Kind int

const (
	KindPing Kind = iota
	KindEcho
	KindGet
	KindSet
	KindInfo
	KindReplconf
	KindPsync
	KindFullResync
)

// Command is a tagged union over the accepted command set. Commands are
// immutable values; only the fields relevant to Kind are populated.
type Command struct {
	Kind Kind

	// Echo
	Args []string

	// Get, Set
	Key   string
	Value string
	TTL   *time.Duration // Set's optional PX milliseconds, nil if absent

	// Info
	Section string

	// Replconf
	Name string // reuses Value for the second token

	// Psync, FullResync
	ReplicationID string
	Offset        int
}

// Encode renders a Command as the bytes it would be sent as on the
// wire, for the commands the replica handshake emits outbound.
func (c Command) Encode() []byte {
	switch c.Kind {
	case KindPing:
		return resp.OutgoingPing
	case KindReplconf:
		return resp.OutgoingReplconf(c.Name, c.Value)
	case KindPsync:
		return resp.OutgoingPsync(c.ReplicationID, c.Offset)
	default:
		return nil
	}
}

// Ping builds the PING command.
func Ping() Command { return Command{Kind: KindPing} }

// Replconf builds a REPLCONF command from a name/value pair.
func Replconf(name, value string) Command {
	return Command{Kind: KindReplconf, Name: name, Value: value}
}

// Psync builds a PSYNC command. A fresh replica uses "?" and -1, the
// defaults for an unknown replication id and offset.
func Psync(replicationID string, offset int) Command {
	return Command{Kind: KindPsync, ReplicationID: replicationID, Offset: offset}
}

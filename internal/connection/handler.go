// Package connection implements the per-connection read/dispatch/reply
// loop: decode one frame, parse it to a command, execute it against the
// shared keyspace and server info, encode a reply, repeat.
package connection

import (
	"errors"
	"io"
	"net"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/florian-trehaut/redis-server/internal/commands"
	"github.com/florian-trehaut/redis-server/internal/keyspace"
	"github.com/florian-trehaut/redis-server/internal/resp"
	"github.com/florian-trehaut/redis-server/internal/serverinfo"
)

// Handler owns one accepted connection for its lifetime.
type Handler struct {
	conn    net.Conn
	decoder *resp.Decoder
	ks      *keyspace.Keyspace
	info    *serverinfo.ServerInfo
	log     *logrus.Entry

	// isReplica is true when this whole instance is a replica, in which
	// case PSYNC from an inbound client replies Null rather than
	// full-resyncing: a replica does not full-resync its own clients.
	isReplica bool
}

// New builds a Handler for a freshly accepted connection.
func New(conn net.Conn, ks *keyspace.Keyspace, info *serverinfo.ServerInfo, isReplica bool, log *logrus.Logger) *Handler {
	return &Handler{
		conn:      conn,
		decoder:   resp.NewDecoder(conn),
		ks:        ks,
		info:      info,
		isReplica: isReplica,
		log:       log.WithField("remote", conn.RemoteAddr()),
	}
}

// Serve runs the read/dispatch/reply loop until the peer disconnects or
// a socket error occurs. It always closes the connection before
// returning.
func (h *Handler) Serve() {
	defer h.conn.Close()

	for {
		frame, err := h.decoder.Decode()
		if err != nil {
			if errors.Is(err, resp.ErrInvalidFrame) {
				if _, werr := h.conn.Write(resp.NullBulkBytes); werr != nil {
					return
				}
				continue
			}
			if !errors.Is(err, io.EOF) {
				h.log.WithError(err).Debug("connection read failed")
			}
			return
		}

		reply := h.dispatch(frame)
		if len(reply) == 0 {
			continue
		}
		if _, err := h.conn.Write(reply); err != nil {
			h.log.WithError(err).Debug("connection write failed")
			return
		}
	}
}

// dispatch parses frame into a Command and executes it, recovering from
// any panic during execution (a stand-in for a poisoned keyspace lock)
// and reporting it to the client as a diagnostic bulk instead of
// tearing the handler down.
func (h *Handler) dispatch(frame resp.Frame) (reply []byte) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithField("panic", r).Error("recovered from command execution panic")
			reply = resp.Encode(resp.BulkString("Poisoned store"))
		}
	}()

	cmd, err := commands.Parse(frame)
	if err != nil {
		h.log.WithError(err).Debug("command parse failed")
		return resp.NullBulkBytes
	}
	return h.execute(cmd)
}

func (h *Handler) execute(cmd commands.Command) []byte {
	switch cmd.Kind {
	case commands.KindPing:
		return resp.PongBytes

	case commands.KindEcho:
		return resp.Encode(resp.BulkString(strings.Join(cmd.Args, "")))

	case commands.KindGet:
		value, ok := h.ks.Get(cmd.Key)
		if !ok {
			return resp.NullBulkBytes
		}
		return resp.Encode(resp.BulkString(value))

	case commands.KindSet:
		h.ks.Set(cmd.Key, cmd.Value, cmd.TTL)
		return resp.OKBytes

	case commands.KindInfo:
		if strings.ToLower(cmd.Section) == "replication" {
			return resp.Encode(resp.BulkString(h.info.ReplicationSection()))
		}
		return resp.Encode(resp.BulkString("Unknown section"))

	case commands.KindReplconf:
		return resp.OKBytes

	case commands.KindPsync:
		if h.isReplica {
			return resp.NullBulkBytes
		}
		return resp.FullResync(h.info.ReplicationID(), h.info.Offset())

	default:
		return resp.NullBulkBytes
	}
}

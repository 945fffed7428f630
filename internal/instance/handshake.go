package instance

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/florian-trehaut/redis-server/internal/resp"
)

// handshake drives the client side of the four-step replication
// handshake against the configured upstream master:
// PING, REPLCONF listening-port, REPLCONF capa psync2, PSYNC ? -1.
// Any departure from the expected reply aborts with an error; the
// connection is closed when the handshake ends since the core does not
// implement replication stream propagation past FULLRESYNC.
func (i *Instance) handshake() error {
	addr := fmt.Sprintf("%s:%d", i.cfg.UpstreamHost, i.cfg.UpstreamPort)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to master %s: %w", addr, err)
	}
	defer conn.Close()

	decoder := resp.NewDecoder(conn)

	if _, err := conn.Write(resp.OutgoingPing); err != nil {
		return fmt.Errorf("send PING: %w", err)
	}
	pong, err := decoder.DecodeBulkString()
	if err != nil {
		return fmt.Errorf("read PING reply: %w", err)
	}
	if pong.Kind != resp.KindBulkString || pong.Str != "PONG" {
		return fmt.Errorf("unexpected PING reply: %+v", pong)
	}

	if err := sendReplconf(conn, decoder, "listening-port", strconv.Itoa(i.cfg.Port)); err != nil {
		return err
	}
	if err := sendReplconf(conn, decoder, "capa", "psync2"); err != nil {
		return err
	}

	if _, err := conn.Write(resp.OutgoingPsync("?", -1)); err != nil {
		return fmt.Errorf("send PSYNC: %w", err)
	}
	reply, err := decoder.Decode()
	if err != nil {
		return fmt.Errorf("read PSYNC reply: %w", err)
	}
	if reply.Kind != resp.KindSimpleString || !strings.HasPrefix(reply.Str, "FULLRESYNC") {
		return fmt.Errorf("unexpected PSYNC reply: %+v", reply)
	}

	if replicationID, offset, ok := parseFullResync(reply.Str); ok {
		i.info.SetHandshakeResult(replicationID, offset)
	}
	i.log.WithField("reply", reply.Str).Info("replica handshake complete")
	return nil
}

func sendReplconf(conn net.Conn, decoder *resp.Decoder, name, value string) error {
	if _, err := conn.Write(resp.OutgoingReplconf(name, value)); err != nil {
		return fmt.Errorf("send REPLCONF %s: %w", name, err)
	}
	reply, err := decoder.Decode()
	if err != nil {
		return fmt.Errorf("read REPLCONF %s reply: %w", name, err)
	}
	if reply.Kind != resp.KindSimpleString || reply.Str != "OK" {
		return fmt.Errorf("unexpected REPLCONF %s reply: %+v", name, reply)
	}
	return nil
}

// parseFullResync extracts the replication id and offset from a
// "FULLRESYNC <replid> <offset>" simple string.
func parseFullResync(line string) (replicationID string, offset int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "FULLRESYNC" {
		return "", 0, false
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, false
	}
	return fields[1], n, true
}

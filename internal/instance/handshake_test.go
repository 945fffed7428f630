package instance

import (
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florian-trehaut/redis-server/internal/roleconfig"
	"github.com/florian-trehaut/redis-server/internal/serverinfo"
)

// fakeMaster accepts exactly one connection and replies to each of the
// four handshake messages with the given lines, in order, ignoring
// what was actually sent beyond reading and discarding it.
func fakeMaster(t *testing.T, replies []string) (addr string, done chan struct{}) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done = make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		defer ln.Close()

		buf := make([]byte, 512)
		for _, reply := range replies {
			if _, err := conn.Read(buf); err != nil {
				return
			}
			if _, err := conn.Write([]byte(reply)); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String(), done
}

func upstreamHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func newTestInstance(t *testing.T, host string, port int) *Instance {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &roleconfig.Config{Role: roleconfig.RoleReplica, Port: 6380, UpstreamHost: host, UpstreamPort: port}
	return &Instance{cfg: cfg, info: serverinfo.NewReplica(), log: log}
}

func TestHandshake_Success(t *testing.T) {
	addr, done := fakeMaster(t, []string{
		"+PONG\r\n",
		"+OK\r\n",
		"+OK\r\n",
		"+FULLRESYNC abc123 0\r\n",
	})
	host, port := upstreamHostPort(t, addr)

	inst := newTestInstance(t, host, port)
	err := inst.handshake()
	assert.NoError(t, err)
	assert.Equal(t, "abc123", inst.info.ReplicationID())
	assert.Equal(t, 0, inst.info.Offset())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fakeMaster goroutine did not finish")
	}
}

func TestHandshake_AbortsOnUnexpectedReply(t *testing.T) {
	addr, _ := fakeMaster(t, []string{
		"+PONG\r\n",
		"+FAIL\r\n",
	})
	host, port := upstreamHostPort(t, addr)

	inst := newTestInstance(t, host, port)
	err := inst.handshake()
	assert.Error(t, err)
}

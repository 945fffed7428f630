// Package instance binds the listening socket, accepts connections and
// spawns handlers; for a replica, it performs the outbound handshake
// against its upstream master before accepting any client connections.
package instance

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/florian-trehaut/redis-server/internal/connection"
	"github.com/florian-trehaut/redis-server/internal/keyspace"
	"github.com/florian-trehaut/redis-server/internal/roleconfig"
	"github.com/florian-trehaut/redis-server/internal/serverinfo"
)

// Instance is the runtime for either a master or a replica; the only
// behavioural difference is the presence of the outbound handshake and
// the reply to PSYNC on inbound connections.
type Instance struct {
	cfg *roleconfig.Config
	info *serverinfo.ServerInfo
	ks   *keyspace.Keyspace
	log  *logrus.Logger

	listener net.Listener
	wg       sync.WaitGroup
}

// New builds an Instance for cfg. It does not bind a socket or perform
// a handshake; call Run for that.
func New(cfg *roleconfig.Config, log *logrus.Logger) *Instance {
	info := serverinfo.NewMaster()
	if cfg.IsReplica() {
		info = serverinfo.NewReplica()
	}
	return &Instance{cfg: cfg, info: info, ks: keyspace.New(), log: log}
}

// Run performs the replica handshake (if applicable), binds the
// listener, and accepts connections until ctx is cancelled, at which
// point it closes the listener and waits for every handler to return.
// Open connections are not closed by shutdown; a handler returns only
// when its peer disconnects or a socket error occurs.
func (i *Instance) Run(ctx context.Context) error {
	if i.cfg.IsReplica() {
		if err := i.handshake(); err != nil {
			return fmt.Errorf("replica handshake against %s:%d: %w", i.cfg.UpstreamHost, i.cfg.UpstreamPort, err)
		}
	}

	addr := fmt.Sprintf("127.0.0.1:%d", i.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	i.listener = ln
	i.log.WithFields(logrus.Fields{"addr": addr, "role": i.cfg.Role}).Info("listening")

	go i.acceptLoop()

	<-ctx.Done()
	return i.shutdown()
}

func (i *Instance) acceptLoop() {
	for {
		conn, err := i.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			i.log.WithError(err).Error("accept failed")
			continue
		}

		i.wg.Add(1)
		go func() {
			defer i.wg.Done()
			connection.New(conn, i.ks, i.info, i.cfg.IsReplica(), i.log).Serve()
		}()
	}
}

func (i *Instance) shutdown() error {
	i.log.Info("shutting down")
	if i.listener != nil {
		_ = i.listener.Close()
	}
	i.wg.Wait()
	return nil
}

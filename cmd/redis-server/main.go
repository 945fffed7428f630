package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/florian-trehaut/redis-server/internal/instance"
	"github.com/florian-trehaut/redis-server/internal/roleconfig"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var port int
	var replicaof string

	log := logrus.New()

	cmd := &cobra.Command{
		Use:   "redis-server",
		Short: "A partial, Redis-compatible in-memory key/value server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := roleconfig.FromFlags(port, replicaof)
			if err != nil {
				log.WithError(err).Fatal("invalid startup arguments")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.Info("received shutdown signal")
				cancel()
			}()

			inst := instance.New(cfg, log)
			if err := inst.Run(ctx); err != nil {
				log.WithError(err).Fatal("server stopped")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 6379, "port to listen on")
	cmd.Flags().StringVar(&replicaof, "replicaof", "", `makes this server a replica of "<host> <port>"`)

	return cmd
}

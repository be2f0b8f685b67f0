package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-mailroom/mailroom/internal/console/config"
	"github.com/go-mailroom/mailroom/internal/devserver"
	"github.com/go-mailroom/mailroom/pkg/log"
	"github.com/go-mailroom/mailroom/pkg/safe"
)

/**
 * @time: 2025/6/26
 * @file: devserver.go
 * @description: devserver 子命令。内存后端，带演示数据。
 */

func devserverCmd() *cobra.Command {
	var (
		configFile string
		addr       string
		noSeed     bool
	)

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run the in-memory development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			log.MustInit(&cfg.Log)
			defer log.Sync()

			srv := devserver.New()
			if !noSeed {
				seed := srv.Seed()
				fmt.Printf("seeded demo data\n  email:    %s\n  password: %s\n  org:      %s\n",
					seed.Email, seed.Password, seed.OrgId)
			}

			errCh := make(chan error, 1)
			safe.Go(func() {
				errCh <- srv.Listen(addr)
			})

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
				log.Info("shutting down")
				return srv.Shutdown()
			}
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file")
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8025", "listen address")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with an empty dataset")
	return cmd
}

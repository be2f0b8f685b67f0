package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-mailroom/mailroom/internal/api"
	"github.com/go-mailroom/mailroom/internal/console/config"
	"github.com/go-mailroom/mailroom/internal/console/cursor"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/selector"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/console/ui"
	"github.com/go-mailroom/mailroom/internal/console/workflow"
	"github.com/go-mailroom/mailroom/pkg/log"
)

/**
 * @time: 2025/6/26
 * @file: console.go
 * @description: console 子命令。装配 store/router/workflow 并启动 TUI。
 */

func consoleCmd() *cobra.Command {
	var (
		configFile string
		serverURL  string
		token      string
		email      string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.Server.URL = serverURL
			}
			if token != "" {
				cfg.Server.Token = token
			}

			// 日志只进文件，stdout 归 TUI
			log.MustInit(&cfg.Log)
			defer log.Sync()

			client := api.NewClient(cfg.Server.URL, cfg.Server.Token)
			if email != "" {
				if _, err := client.Login(context.Background(), email, password); err != nil {
					return errors.Wrap(err, "login failed")
				}
			} else if cfg.Server.Token == "" {
				return errors.New("no session: pass --token, or --email and --password")
			}

			store := state.NewStore()
			router := route.NewRouter(route.Location{Name: route.Organizations})
			loop := ui.NewLoop()
			res := selector.New(store, loop)
			wf := workflow.New(client, loop.Dispatch, loop, loop)
			pager := cursor.NewController(loop)

			app := ui.NewApp(store, router, res, wf, pager, loop)
			p := tea.NewProgram(app, tea.WithAltScreen())
			loop.SetSender(p.Send)

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file, e.g. ~/.mailroom.toml")
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "backend base URL (overrides config)")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for an existing session")
	cmd.Flags().StringVar(&email, "email", "", "log in with this email")
	cmd.Flags().StringVar(&password, "password", "", "password for --email")
	return cmd
}

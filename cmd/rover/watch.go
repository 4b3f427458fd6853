package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/rover/internal/presentation/tui"
	redisAdapter "github.com/aretw0/rover/pkg/adapters/redis"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow pose events published to Redis by a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
			cfg.Redis.Addr = addr
		}
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("no Redis address: set redis.addr, ROVER_REDIS_ADDR or --redis")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sub := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithChannel(cfg.Redis.Channel))
		defer sub.Close()

		profile := termenv.EnvColorProfile()

		if latest, ok, err := sub.Latest(ctx); err != nil {
			return err
		} else if ok {
			fmt.Println(tui.FormatEvent(profile, latest))
		}

		events, err := sub.Subscribe(ctx)
		if err != nil {
			return err
		}
		logger.Info("Watching pose events", "addr", cfg.Redis.Addr, "channel", sub.Channel())

		for event := range events {
			fmt.Println(tui.FormatEvent(profile, event))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("redis", "", "Redis address (overrides redis.addr)")
}

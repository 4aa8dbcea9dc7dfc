package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tunelink/oauth2-device-client/internal/deviceflow"
	"github.com/tunelink/oauth2-device-client/internal/headers"
	"github.com/tunelink/oauth2-device-client/internal/provider"
	"github.com/tunelink/oauth2-device-client/internal/tokenstore"
)

func newProviderClient(cfg Config) (*provider.Client, error) {
	opts := []provider.Option{
		provider.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		opts = append(opts, provider.WithProxy(proxyURL))
	}

	return provider.New(provider.Config{
		ClientID:      cfg.ClientID,
		ClientSecret:  cfg.ClientSecret,
		Scope:         cfg.Scope,
		DeviceCodeURL: cfg.DeviceCodeURL,
		TokenURL:      cfg.TokenURL,
	}, opts...)
}

// newStore selects the token store: Redis when a URL is configured,
// otherwise the token file.
func newStore(ctx context.Context, cfg Config) (tokenstore.Store, func(), error) {
	if cfg.RedisURL == "" {
		return tokenstore.NewFileStore(cfg.TokenFile), func() {}, nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing Redis URL: %w", err)
	}
	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return tokenstore.NewRedisStore(client, ""), func() { client.Close() }, nil
}

func newSetupCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run the interactive device-authorization flow and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newProviderClient(cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := []deviceflow.Option{deviceflow.WithStore(store)}
			if cfg.OpenBrowser {
				opts = append(opts, deviceflow.WithOpenBrowser())
			}
			if cfg.Poll {
				opts = append(opts, deviceflow.WithPolling())
			}

			rec, err := deviceflow.New(client, opts...).Setup(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token acquired, expires at %s\n",
				time.Unix(rec.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}

func newHeadersCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "headers",
		Short: "Print authorization headers for the stored token, refreshing if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newProviderClient(cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			rec, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("no usable token, run setup first: %w", err)
			}

			h, err := headers.New(client, headers.WithStore(store)).Build(ctx, rec)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(h, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

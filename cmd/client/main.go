package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/spillway/internal/client/cli"
	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/config"
	"github.com/dmitrijs2005/spillway/internal/client/poller"
	"github.com/dmitrijs2005/spillway/internal/client/services"
	"github.com/dmitrijs2005/spillway/internal/client/session"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
	"github.com/dmitrijs2005/spillway/internal/client/views"
	"github.com/dmitrijs2005/spillway/internal/filex"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, buildApp, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// buildApp wires the client stack for cfg.
func buildApp(ctx context.Context, cfg *config.Config) (*cli.App, error) {
	log, err := logging.New(os.Stderr, logging.Options{
		Backend: cfg.LogBackend,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		if dbPath, err = filex.DefaultDatabasePath(); err != nil {
			return nil, err
		}
	}
	repos, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}

	opts := []client.Option{client.WithLogger(log)}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.RequestTimeout))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, client.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst))
	}
	api, err := client.NewHTTPClient(cfg.APIBaseURL, opts...)
	if err != nil {
		return nil, errors.Join(err, repos.Close())
	}

	sess := session.NewStore(repos.Metadata, api, session.WithLogger(log))
	api.AddInterceptor(sess.Interceptor())

	storeLog := stores.WithLogger(log)
	videos := stores.NewVideoStore(api, storeLog, stores.WithPollerOptions(
		poller.WithInterval(cfg.PollInterval),
		poller.WithMaxAttempts(cfg.PollMaxAttempts),
		poller.WithProgress(cli.ProgressPrinter(os.Stdout)),
	))
	search := stores.NewSearchStore(api, storeLog)
	auth := services.NewAuthService(api, sess, log)
	keys := services.NewKeyService(repos.Keys, services.WithKeyLogger(log))

	var backup *services.S3Backup
	if cfg.S3Bucket != "" {
		s3c, err := services.NewS3Client(ctx, services.BackupConfig{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			return nil, errors.Join(fmt.Errorf("s3: %w", err), repos.Close())
		}
		backup = services.NewS3Backup(s3c, cfg.S3Bucket, keys, log)
	}

	return cli.NewApp(cli.Deps{
		Config:    cfg,
		Auth:      auth,
		Keys:      keys,
		Backup:    backup,
		Videos:    videos,
		Playlists: stores.NewPlaylistStore(api, storeLog),
		Search:    search,
		Sharing:   stores.NewSharingStore(api, storeLog),
		List:      views.NewVideoList(videos, search, auth, views.DefaultOptions(), log),
		Log:       log,
		Close:     repos.Close,
	}, os.Stdin, os.Stdout), nil
}

package bootstrap

import (
	"compress/flate"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/quickbase/api"
	"github.com/fulldump/quickbase/configuration"
	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/service"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration, logger *slog.Logger) (start, stop func(), err error) {

	db := database.NewDatabase(&database.Config{
		Logger: logger.With("component", "database"),
	})

	if c.Manifest != "" {
		m, err := database.ParseManifest(c.Manifest)
		if err != nil {
			return nil, nil, err
		}
		err = db.Apply(m)
		if err != nil {
			return nil, nil, fmt.Errorf("apply manifest: %w", err)
		}
	}

	b := api.Build(service.NewService(db), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression(flate.DefaultCompression))
	}
	b.WithInterceptors(
		api.AccessLog(logger.With("component", "access")),
		api.RateLimit(c.RateLimit, c.RateBurst),
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic(logger),
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("listening", "addr", ln.Addr().String())

	stopOnce := &sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := s.Shutdown(ctx)
			if err != nil {
				logger.Error("http shutdown", "err", err)
			}
			db.Stop()
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Info("signal received", "signal", sig.String())
		stop()
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				logger.Error("database", "err", err)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				logger.Error("http serve", "err", err)
			}
		}()

		wg.Wait()
	}

	return
}

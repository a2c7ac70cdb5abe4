package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"torus-survival/internal/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger.Init()

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Log.WithError(err).Fatal("config")
	}

	var db *DB
	var analytics *Analytics
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("open database")
		}
		analytics = NewAnalytics(db)
	}

	hub := NewHub(db, analytics, cfg)
	go hub.Run()

	mux := SetupRoutes(hub, cfg.ClientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Log.WithFields(logrus.Fields{
			"addr":   cfg.Addr,
			"client": cfg.ClientDir,
			"db":     cfg.DBPath,
			"region": cfg.Region,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	<-stop
	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("shutdown")
	}
	analytics.Stop()
	if db != nil {
		db.Close()
	}
}

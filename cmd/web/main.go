package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/pellicle-photo/pellicle/internal/config"
	"github.com/pellicle-photo/pellicle/internal/gallery"
	"github.com/pellicle-photo/pellicle/internal/store"
	"github.com/pellicle-photo/pellicle/internal/util"
)

func main() {

	// set logging to json format for the web server
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(jsonHandler).
		With(slog.String(util.ServiceKey, util.ServiceGallery)))

	// create a logger for the main package
	logger := slog.Default().
		With(slog.String(util.PackageKey, util.PackageMain)).
		With(slog.String(util.ComponentKey, util.ComponentMain))

	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load %s web config", util.ServiceGallery), "err", err.Error())
		os.Exit(1)
	}

	objStore, err := store.NewS3(context.Background(), cfg.Bucket)
	if err != nil {
		logger.Error("failed to create object storage client", "err", err.Error())
		os.Exit(1)
	}

	r := gin.Default()

	svc := gallery.NewService(objStore, cfg.PresignTTL())
	gallery.NewHandler(svc).RegisterRoutes(r)

	logger.Info(fmt.Sprintf("%s web server listening on %s", util.ServiceGallery, cfg.Addr))

	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("web server exited", "err", err.Error())
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dramaflow/internal/app"
	"dramaflow/internal/config"
	"dramaflow/internal/server"
)

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatal(err)
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	f := fiber.New(fiber.Config{
		AppName:   "dramaflow",
		BodyLimit: 16 * 1024 * 1024,
	})
	server.Register(f, application)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logrus.Infof("server listening on %s", addr)
	if err := f.Listen(addr); err != nil {
		logrus.Fatal(err)
	}
}

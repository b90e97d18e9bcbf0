package main

import (
	"os"
	"os/signal"
	"syscall"

	"mocktrade/config"
	"mocktrade/core"
	"mocktrade/pkg/types"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func main() {
	configureLog(config.Env.EnvName)

	config, err := config.LoadConfig(config.Env.EnvName)
	if err != nil {
		log.Fatalf("fail to load config: %v", err)
	}

	// 📊 core: order lifecycle engine
	eng, hub := core.Bootstrap(*config)

	// 🌩️ fiber: rest + ws module
	fApp := core.SetupFiberApp(eng, hub)
	setupSignalHandler(fApp)

	log.Infof("listening on %s", config.Server.Addr)
	if err := fApp.Listen(config.Server.Addr); err != nil {
		log.Panic(err)
	}
}

func configureLog(envName types.EnvName) {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if envName == types.EnvLocal || envName == types.EnvDev {
		log.SetLevel(log.DebugLevel)
	}
}

func setupSignalHandler(app *fiber.App) {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigC
		log.Info("🚩 received shutdown signal")
		core.ShutdownFiberApp(app)
	}()
}

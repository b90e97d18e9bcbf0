package core

import (
	"mocktrade/config"
	"mocktrade/pkg/broadcast"
	"mocktrade/pkg/engine"

	log "github.com/sirupsen/logrus"
)

// Bootstrap wires the hub and engine from config. Constructed once per
// process; everything downstream receives these by handle.
func Bootstrap(cfg config.Config) (*engine.Engine, *broadcast.Hub) {
	log.Info("🦾 Bootstrapping...")

	hub := broadcast.NewHub(cfg.Orders.SubscriberBuffer)
	eng := engine.New(cfg.Orders, hub)
	log.Infof("engine ready, supported symbols: %v", cfg.Orders.SupportedSymbols)

	return eng, hub
}

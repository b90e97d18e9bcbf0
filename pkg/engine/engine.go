package engine

import (
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"mocktrade/config"
	"mocktrade/pkg/broadcast"
	"mocktrade/pkg/order"
	"mocktrade/pkg/types"

	log "github.com/sirupsen/logrus"
)

// Engine is the order service facade: it owns the store, runs validation,
// schedules the simulated execution of every created order and publishes
// lifecycle events to the hub. One instance per process; handlers share it.
type Engine struct {
	store   *order.Store
	hub     *broadcast.Hub
	symbols map[string]struct{}

	minRequestLatency time.Duration
	maxRequestLatency time.Duration
	minExecutionDelay time.Duration
	maxExecutionDelay time.Duration
}

func New(cfg *config.OrderConfig, hub *broadcast.Hub) *Engine {
	symbols := make(map[string]struct{}, len(cfg.SupportedSymbols))
	for _, s := range cfg.SupportedSymbols {
		symbols[s] = struct{}{}
	}
	return &Engine{
		store:             order.NewStore(),
		hub:               hub,
		symbols:           symbols,
		minRequestLatency: time.Duration(cfg.MinRequestLatencyMs) * time.Millisecond,
		maxRequestLatency: time.Duration(cfg.MaxRequestLatencyMs) * time.Millisecond,
		minExecutionDelay: time.Duration(cfg.MinExecutionDelayMs) * time.Millisecond,
		maxExecutionDelay: time.Duration(cfg.MaxExecutionDelayMs) * time.Millisecond,
	}
}

// CreateOrder validates the request, allocates an id, stores the new order,
// publishes its PENDING snapshot and schedules execution. The PENDING
// publish happens before the execution goroutine is spawned so subscribers
// always see PENDING before EXECUTED for the same order.
func (e *Engine) CreateOrder(symbol string, rawQuantity json.RawMessage) (types.OrderInfo, error) {
	e.simulateLatency()

	qty, err := order.ValidateNewOrder(e.symbols, symbol, rawQuantity)
	if err != nil {
		return types.OrderInfo{}, err
	}

	o := order.New(e.store.NextID(), symbol, qty)
	e.store.Put(o)

	info := o.Snapshot()
	e.hub.Publish(info)
	e.scheduleExecution(o)

	log.Infof("order %d created (%s x%d)", o.ID(), symbol, qty)
	return info, nil
}

func (e *Engine) GetOrder(id int64) (types.OrderInfo, error) {
	e.simulateLatency()

	o, ok := e.store.Get(id)
	if !ok {
		return types.OrderInfo{}, &order.NotFoundError{ID: strconv.FormatInt(id, 10)}
	}
	return o.Snapshot(), nil
}

// ListOrders returns snapshots of every order in creation order; an empty
// store yields an empty slice, not an error.
func (e *Engine) ListOrders() []types.OrderInfo {
	e.simulateLatency()

	orders := e.store.ListAll()
	infos := make([]types.OrderInfo, 0, len(orders))
	for _, o := range orders {
		infos = append(infos, o.Snapshot())
	}
	return infos
}

// CancelOrder attempts the PENDING -> CANCELLED transition and publishes the
// CANCELLED snapshot on success. Terminal orders reject the request and
// nothing is published.
func (e *Engine) CancelOrder(id int64) (types.OrderInfo, error) {
	e.simulateLatency()

	o, ok := e.store.Get(id)
	if !ok {
		return types.OrderInfo{}, &order.NotFoundError{ID: strconv.FormatInt(id, 10)}
	}
	if err := o.Cancel(); err != nil {
		return types.OrderInfo{}, err
	}

	info := o.Snapshot()
	e.hub.Publish(info)
	log.Infof("order %d cancelled", id)
	return info, nil
}

// scheduleExecution spawns the detached per-order execution task. The
// creation response never waits on it, and any failure inside it is
// swallowed; nobody is listening on this path.
func (e *Engine) scheduleExecution(o *order.Order) {
	delay := randDuration(e.minExecutionDelay, e.maxExecutionDelay)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("execution task for order %d panicked: %v", o.ID(), r)
			}
		}()

		time.Sleep(delay)
		if !o.Execute() {
			// lost the race to a cancel, nothing to emit
			log.Debugf("order %d no longer pending at execution time", o.ID())
			return
		}
		e.hub.Publish(o.Snapshot())
		log.Infof("order %d executed", o.ID())
	}()
}

// simulateLatency models the network/processing latency of a real upstream
// before the store is touched. Timing characteristic only, not correctness.
func (e *Engine) simulateLatency() {
	if d := randDuration(e.minRequestLatency, e.maxRequestLatency); d > 0 {
		time.Sleep(d)
	}
}

func randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

// Manual end-to-end smoke client: subscribes to the ws feed, places an
// order, waits for the PENDING and EXECUTED pushes, then exercises the
// cancel rejection path. Run against a live server:
//
//	BASE_URL=http://localhost:3000 go run ./cmd/smoke
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	httpc "mocktrade/pkg/http"
	"mocktrade/pkg/types"
	"mocktrade/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()
	baseURL := utils.LoadEnvWithDefault("BASE_URL", "http://localhost:3000")

	wsURL, err := toWsURL(baseURL)
	if err != nil {
		log.Fatalf("fail to derive ws url: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("fail to connect ws: %v", err)
	}
	defer conn.Close()
	log.Infof("subscribed to %s", wsURL)

	// place an order and follow its lifecycle over the feed
	body, _ := json.Marshal(map[string]any{"symbol": "EURUSD", "quantity": 4})
	status, resBody, err := httpc.PostRequest(baseURL+"/orders", body)
	if err != nil {
		log.Fatalf("fail to place order: %v", err)
	}
	if status != 201 {
		log.Fatalf("unexpected status %d placing order: %s", status, resBody)
	}
	var created types.OrderInfo
	if err := json.Unmarshal(resBody, &created); err != nil {
		log.Fatalf("fail to decode order: %v", err)
	}
	log.Infof("order %s placed", created.OrderID)

	for {
		var event types.OrderInfo
		if err := conn.ReadJSON(&event); err != nil {
			log.Fatalf("fail to read ws event: %v", err)
		}
		if event.OrderID != created.OrderID {
			continue
		}
		log.Infof("event: order %s -> %s", event.OrderID, event.Status)
		if event.Status == types.OrderStatusExecuted {
			break
		}
	}

	// cancelling an executed order must be rejected
	status, resBody, err = httpc.DeleteRequest(fmt.Sprintf("%s/orders/%s", baseURL, created.OrderID))
	if err != nil {
		log.Fatalf("fail to cancel order: %v", err)
	}
	if status != 400 {
		log.Fatalf("expected 400 cancelling executed order, got %d: %s", status, resBody)
	}
	log.Infof("cancel rejected as expected: %s", resBody)
	log.Info("✅ smoke test passed")
}

func toWsURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/ws"
	return u.String(), nil
}

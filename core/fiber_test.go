package core

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"mocktrade/config"
	"mocktrade/pkg/broadcast"
	"mocktrade/pkg/engine"
	"mocktrade/pkg/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrderConfig() *config.OrderConfig {
	return &config.OrderConfig{
		SupportedSymbols:    []string{"EURUSD", "USDEUR", "CADUSD", "USDCAD"},
		MinRequestLatencyMs: 0,
		MaxRequestLatencyMs: 0,
		MinExecutionDelayMs: 30,
		MaxExecutionDelayMs: 60,
		SubscriberBuffer:    64,
	}
}

func newTestApp() *fiber.App {
	hub := broadcast.NewHub(64)
	eng := engine.New(testOrderConfig(), hub)
	return SetupFiberApp(eng, hub)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req, 5000)
	require.NoError(t, err)
	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	return res, resBody
}

func placeOrder(t *testing.T, app *fiber.App, symbol string, quantity string) types.OrderInfo {
	t.Helper()
	res, body := doJSON(t, app, "POST", "/orders", fmt.Sprintf(`{"symbol": %q, "quantity": %s}`, symbol, quantity))
	require.Equal(t, fiber.StatusCreated, res.StatusCode, "body: %s", body)
	var info types.OrderInfo
	require.NoError(t, json.Unmarshal(body, &info))
	return info
}

// assertion-free status probe, safe inside require.Eventually closures
func orderStatus(app *fiber.App, id string) types.OrderStatus {
	req, err := http.NewRequest("GET", "/orders/"+id, nil)
	if err != nil {
		return ""
	}
	res, err := app.Test(req, 5000)
	if err != nil {
		return ""
	}
	defer res.Body.Close()
	var info types.OrderInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return ""
	}
	return info.Status
}

func detailOf(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Detail
}

func TestHealth(t *testing.T) {
	app := newTestApp()
	res, body := doJSON(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"success": true, "data": null}`, string(body))
}

func TestPlaceOrder(t *testing.T) {
	app := newTestApp()

	info := placeOrder(t, app, "EURUSD", "10")
	assert.Equal(t, "1", info.OrderID)
	assert.Equal(t, types.OrderStatusPending, info.Status)
	assert.Equal(t, "EURUSD", info.Symbol)
	assert.Equal(t, int64(10), info.Quantity)
	assert.Nil(t, info.ExecutedTime)
}

func TestPlaceOrderExecutedTimeSerializesNull(t *testing.T) {
	app := newTestApp()
	res, body := doJSON(t, app, "POST", "/orders", `{"symbol": "EURUSD", "quantity": 10}`)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Contains(t, raw, "executed_time")
	assert.Equal(t, "null", string(raw["executed_time"]))
}

func TestPlaceOrderValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		detail string
	}{
		{"unsupported symbol", `{"symbol": "EURUSDD", "quantity": 10}`, "Symbol: EURUSDD is not supported"},
		{"negative quantity", `{"symbol": "EURUSD", "quantity": -10}`, "Quantity must be greater than zero"},
		{"zero quantity", `{"symbol": "EURUSD", "quantity": 0}`, "Quantity must be greater than zero"},
		{"string quantity", `{"symbol": "EURUSD", "quantity": "10.12"}`, "Quantity must be an integer"},
		{"fractional quantity", `{"symbol": "EURUSD", "quantity": 10.5}`, "Quantity should be a valid integer, got a number with a fractional part"},
		{"missing quantity", `{"symbol": "EURUSD"}`, "Quantity must be an integer"},
	}

	app := newTestApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := doJSON(t, app, "POST", "/orders", tc.body)
			assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
			assert.Equal(t, tc.detail, detailOf(t, body))
		})
	}

	// none of the rejected requests created an order
	res, body := doJSON(t, app, "GET", "/orders", "")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"message": "No orders found"}`, string(body))
}

func TestGetOrderByID(t *testing.T) {
	app := newTestApp()
	created := placeOrder(t, app, "EURUSD", "4")

	res, body := doJSON(t, app, "GET", "/orders/"+created.OrderID, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var info types.OrderInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, created.OrderID, info.OrderID)
}

func TestGetOrderByUnknownID(t *testing.T) {
	app := newTestApp()
	res, body := doJSON(t, app, "GET", "/orders/999999", "")
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Order with ID: 999999 does not exist", detailOf(t, body))
}

func TestGetOrderByMalformedID(t *testing.T) {
	app := newTestApp()
	res, body := doJSON(t, app, "GET", "/orders/abc", "")
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Order with ID: abc does not exist", detailOf(t, body))
}

func TestGetAllOrders(t *testing.T) {
	app := newTestApp()
	created := placeOrder(t, app, "EURUSD", "4")

	res, body := doJSON(t, app, "GET", "/orders", "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var infos []types.OrderInfo
	require.NoError(t, json.Unmarshal(body, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, created.OrderID, infos[0].OrderID)
}

func TestOrderExecutesAfterWindow(t *testing.T) {
	app := newTestApp()
	created := placeOrder(t, app, "EURUSD", "4")

	// immediately pending
	_, body := doJSON(t, app, "GET", "/orders/"+created.OrderID, "")
	var info types.OrderInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, types.OrderStatusPending, info.Status)

	// past the execution window it is executed
	require.Eventually(t, func() bool {
		return orderStatus(app, created.OrderID) == types.OrderStatusExecuted
	}, 2*time.Second, 10*time.Millisecond)

	_, body = doJSON(t, app, "GET", "/orders/"+created.OrderID, "")
	require.NoError(t, json.Unmarshal(body, &info))
	require.NotNil(t, info.ExecutedTime)
	assert.True(t, info.ExecutedTime.After(info.CreatedTime))
}

func TestDeleteOrder(t *testing.T) {
	app := newTestApp()
	created := placeOrder(t, app, "EURUSD", "4")

	res, body := doJSON(t, app, "DELETE", "/orders/"+created.OrderID, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode, "body: %s", body)
	var info types.OrderInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, types.OrderStatusCancelled, info.Status)
	assert.Nil(t, info.ExecutedTime)

	// second delete is rejected
	res, body = doJSON(t, app, "DELETE", "/orders/"+created.OrderID, "")
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("Order with ID: %s has already been canceled", created.OrderID), detailOf(t, body))
}

func TestDeleteExecutedOrder(t *testing.T) {
	app := newTestApp()
	created := placeOrder(t, app, "EURUSD", "4")

	require.Eventually(t, func() bool {
		return orderStatus(app, created.OrderID) == types.OrderStatusExecuted
	}, 2*time.Second, 10*time.Millisecond)

	res, body := doJSON(t, app, "DELETE", "/orders/"+created.OrderID, "")
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("Order with ID: %s has already been executed", created.OrderID), detailOf(t, body))
}

func TestDeleteOrderWithUnknownID(t *testing.T) {
	app := newTestApp()
	res, body := doJSON(t, app, "DELETE", "/orders/999999", "")
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Order with ID: 999999 does not exist", detailOf(t, body))
}

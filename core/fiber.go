package core

import (
	"encoding/json"
	"errors"
	"strconv"

	"mocktrade/pkg/broadcast"
	"mocktrade/pkg/engine"
	"mocktrade/pkg/order"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type createOrderRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity json.RawMessage `json:"quantity"`
}

func SetupFiberApp(eng *engine.Engine, hub *broadcast.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "mocktrade",
	})

	// permissive CORS so browser ws clients can connect cross-origin
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	})

	app.Post("/orders", func(c *fiber.Ctx) error {
		var req createOrderRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
		}
		info, err := eng.CreateOrder(req.Symbol, req.Quantity)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})

	app.Get("/orders", func(c *fiber.Ctx) error {
		infos := eng.ListOrders()
		if len(infos) == 0 {
			return c.JSON(fiber.Map{"message": "No orders found"})
		}
		return c.JSON(infos)
	})

	app.Get("/orders/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return errorResponse(c, &order.NotFoundError{ID: c.Params("id")})
		}
		info, err := eng.GetOrder(id)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(info)
	})

	app.Delete("/orders/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return errorResponse(c, &order.NotFoundError{ID: c.Params("id")})
		}
		info, err := eng.CancelOrder(id)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(info)
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsHandler(hub)))

	return app
}

func ShutdownFiberApp(app *fiber.App) {
	_ = app.Shutdown()
}

// errorResponse maps the order error taxonomy onto wire status codes, with
// the error message as the `detail` field.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnprocessableEntity

	var notFound *order.NotFoundError
	var executed *order.AlreadyExecutedError
	var cancelled *order.AlreadyCancelledError
	switch {
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &executed), errors.As(err, &cancelled):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"detail": err.Error()})
}

package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias del router HTTP.
type RouterDeps struct {
	JWTSecret   string
	Inventory   *InventoryHandler
	Fulfillment *FulfillmentHandler
}

// Router registra todas las rutas de la API. Todas las rutas bajo /api
// requieren JWT; las mutaciones de inventario exigen además rol de bodega.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	warehouse := RequireRole("admin", "bodeguero")

	inv := api.Group("/inventory")
	inv.Post("/movements", warehouse, deps.Inventory.RegisterMovement)
	inv.Get("/movements", deps.Inventory.ListMovements)
	inv.Delete("/movements/:reference_id", warehouse, deps.Inventory.ReverseMovement)
	inv.Post("/transfers", warehouse, deps.Inventory.Transfer)
	inv.Delete("/transfers/:id", warehouse, deps.Inventory.ReverseTransfer)
	inv.Get("/stock", deps.Inventory.CurrentStock)
	inv.Get("/low-stock", deps.Inventory.LowStock)
	inv.Get("/replenishment-list", deps.Inventory.ReplenishmentList)
	inv.Get("/records/:id/history", deps.Inventory.RecordHistory)

	api.Put("/orders/:id/status", deps.Fulfillment.ChangeOrderStatus)

	returns := api.Group("/supplier-returns", warehouse)
	returns.Post("/", deps.Fulfillment.RequestSupplierReturn)
	returns.Post("/:id/send", deps.Fulfillment.SendSupplierReturn)
	returns.Post("/:id/void", deps.Fulfillment.VoidSupplierReturn)
}

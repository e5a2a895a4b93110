package handler

import (
	"waterlife-backoffice/internal/middleware"
	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Roles        *RoleHandler
	Me           *MeHandler
	RawMaterials *RawMaterialHandler
	Products     *ProductHandler
	Suppliers    *SupplierHandler
	Purchases    *PurchaseHandler
	Sales        *SaleHandler
	Reports      *ReportHandler
	Quotations   *QuotationHandler
	Comments     *CommentHandler
}

// Register mounts the API under /api/v1. auth must be middleware.RequireAuth.
func (h *Handlers) Register(app *fiber.App, auth fiber.Handler) {
	api := app.Group("/api/v1")
	admin := middleware.RequireRole(model.RoleAdmin)
	client := middleware.RequireRole(model.RoleClient)

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)
	api.Post("/auth/register", h.Auth.Register)
	api.Post("/quotations", h.Quotations.Create)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", auth)

	// Own account (any role)
	protected.Get("/me", h.Me.Profile)
	protected.Put("/me/name", h.Me.UpdateName)
	protected.Put("/me/email", h.Me.UpdateEmail)
	protected.Put("/me/password", h.Me.ChangePassword)

	// Client self-service
	protected.Get("/me/sales", client, h.Me.MySales)
	protected.Get("/me/products", client, h.Me.MyProducts)
	protected.Post("/me/comments", client, h.Me.CreateComment)
	protected.Get("/me/comments", client, h.Me.MyComments)

	// Catalog reads (any role)
	protected.Get("/products", h.Products.GetAll)
	protected.Get("/products/:id", h.Products.GetByID)

	// Users & roles
	protected.Get("/roles", admin, h.Roles.GetRoles)
	protected.Get("/users", admin, h.Users.GetUsers)
	protected.Post("/users", admin, h.Users.CreateUser)
	protected.Put("/users/role", admin, h.Users.AssignRole)
	protected.Get("/users/:id", admin, h.Users.GetUser)
	protected.Put("/users/:id", admin, h.Users.UpdateUser)
	protected.Delete("/users/:id", admin, h.Users.DeleteUser)

	// Raw materials
	protected.Get("/raw-materials", admin, h.RawMaterials.GetAll)
	protected.Get("/raw-materials/:id", admin, h.RawMaterials.GetByID)
	protected.Post("/raw-materials", admin, h.RawMaterials.Create)
	protected.Put("/raw-materials/:id", admin, h.RawMaterials.Update)
	protected.Delete("/raw-materials/:id", admin, h.RawMaterials.Delete)

	// Products
	protected.Post("/products", admin, h.Products.Create)
	protected.Put("/products/:id", admin, h.Products.Update)
	protected.Patch("/products/:id/price", admin, h.Products.SetPrice)
	protected.Post("/products/:id/reprice", admin, h.Products.Reprice)
	protected.Get("/products/:id/suggested-price", admin, h.Products.SuggestedPrice)
	protected.Delete("/products/:id", admin, h.Products.Delete)

	// Suppliers
	protected.Get("/suppliers", admin, h.Suppliers.GetAll)
	protected.Get("/suppliers/:id", admin, h.Suppliers.GetByID)
	protected.Post("/suppliers", admin, h.Suppliers.Create)
	protected.Put("/suppliers/:id", admin, h.Suppliers.Update)
	protected.Delete("/suppliers/:id", admin, h.Suppliers.Delete)

	// Purchases
	protected.Get("/purchases", admin, h.Purchases.GetAll)
	protected.Get("/purchases/summary", admin, h.Purchases.Summary)
	protected.Get("/purchases/recent", admin, h.Purchases.Recent)
	protected.Get("/purchases/:id", admin, h.Purchases.GetByID)
	protected.Post("/purchases", admin, h.Purchases.Create)

	// Sales & reports
	protected.Get("/sales", admin, h.Sales.GetAll)
	protected.Get("/sales/client/:id", admin, h.Sales.GetByClient)
	protected.Post("/sales", admin, h.Sales.Create)
	protected.Get("/reports/sales/summary", admin, h.Reports.Summary)
	protected.Get("/reports/sales/recent", admin, h.Reports.Recent)
	protected.Get("/reports/sales/monthly", admin, h.Reports.Monthly)
	protected.Get("/reports/sales/top-clients", admin, h.Reports.TopClients)
	protected.Get("/reports/sales/top-products", admin, h.Reports.TopProducts)
	protected.Get("/reports/sales/export", admin, h.Reports.Export)

	// Quotations & comments
	protected.Get("/quotations", admin, h.Quotations.GetAll)
	protected.Get("/quotations/:id", admin, h.Quotations.GetByID)
	protected.Get("/comments", admin, h.Comments.GetAll)
	protected.Post("/comments/:id/reply", admin, h.Comments.Reply)
	protected.Delete("/comments/:id", admin, h.Comments.Delete)
}

// RegisterWebSocket mounts the live inventory feed at /ws for admins.
// Browsers cannot set headers on an upgrade, so the token may come as ?token=.
func RegisterWebSocket(app *fiber.App, hub *ws.Hub, auth fiber.Handler) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if token := c.Query("token"); token != "" && c.Get(fiber.HeaderAuthorization) == "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		return c.Next()
	}, auth, middleware.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Serve))
}

package api

import (
	"coffee-shop/internal/notify"
	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Catalog       *service.CatalogService
	Customers     *service.CustomerService
	Carts         *service.CartService
	Orders        *service.OrderService
	Loyalty       *service.LoyaltyService
	Discounts     *service.DiscountService
	Notifications *service.NotificationService
	Inventory     *service.InventoryService
	Reviews       *service.ReviewService
	Reports       *service.ReportService
	Hub           *notify.Hub
}

type RouterConfig struct {
	APIKey    string
	JWTSecret string
}

// RegisterRoutes mounts every endpoint under /api.
func RegisterRoutes(e *echo.Echo, s Services, cfg RouterConfig) {
	staff := APIKey(cfg.APIKey)
	customer := CustomerAuth(cfg.JWTSecret)

	catalog := NewCatalogHandler(s.Catalog)
	customers := NewCustomerHandler(s.Customers, s.Loyalty, s.Notifications)
	carts := NewCartHandler(s.Carts, s.Orders)
	orders := NewOrderHandler(s.Orders)
	loyalty := NewLoyaltyHandler(s.Loyalty, s.Discounts)
	notifications := NewNotificationHandler(s.Notifications, s.Hub)
	stock := NewStockHandler(s.Inventory)
	reviews := NewReviewHandler(s.Reviews)
	reports := NewReportHandler(s.Reports)

	g := e.Group("/api")
	g.GET("/health", Health("coffee-shop"))

	g.GET("/products", catalog.ListProducts)
	g.POST("/products", catalog.CreateProduct, staff)
	g.GET("/products/:id", catalog.GetProduct)
	g.PUT("/products/:id", catalog.UpdateProduct, staff)
	g.DELETE("/products/:id", catalog.DeleteProduct, staff)
	g.POST("/products/:id/variants", catalog.AddVariant, staff)

	g.GET("/addons", catalog.ListAddons)
	g.POST("/addons", catalog.CreateAddon, staff)
	g.PUT("/addons/:id", catalog.UpdateAddon, staff)
	g.DELETE("/addons/:id", catalog.DeleteAddon, staff)

	g.POST("/customers", customers.CreateCustomer)
	g.GET("/customers", customers.ListCustomers, staff)
	g.GET("/customers/:id", customers.GetCustomer, staff)
	g.GET("/customers/:id/stamps", customers.GetStamps)
	g.POST("/customers/:id/stamps", customers.AddStamp, staff)
	g.GET("/customers/:id/discounts", customers.ListDiscounts, customer)
	g.GET("/customers/:id/notifications", customers.ListNotifications, customer)

	g.GET("/customers/:id/cart", carts.GetCart, customer)
	g.DELETE("/customers/:id/cart", carts.AbandonCart, customer)
	g.POST("/customers/:id/cart/items", carts.AddItem, customer)
	g.PUT("/customers/:id/cart/items/:itemId", carts.UpdateItem, customer)
	g.DELETE("/customers/:id/cart/items/:itemId", carts.RemoveItem, customer)
	g.POST("/customers/:id/checkout", carts.Checkout, customer)

	g.POST("/orders/buyout", orders.Buyout)
	g.GET("/orders", orders.ListOrders, staff)
	g.GET("/orders/:id", orders.GetOrder, staff)
	g.PUT("/orders/:id", orders.UpdateOrder, staff)
	g.DELETE("/orders/:id", orders.DeleteOrder, staff)

	g.GET("/payment-methods", orders.ListPaymentMethods, staff)
	g.POST("/payment-methods", orders.CreatePaymentMethod, staff)
	g.GET("/payment-methods/:id", orders.GetPaymentMethod, staff)
	g.DELETE("/payment-methods/:id", orders.DeletePaymentMethod, staff)

	g.GET("/discounts", loyalty.ListDiscounts, staff)
	g.POST("/discounts", loyalty.CreateDiscount, staff)
	g.GET("/discounts/:id", loyalty.GetDiscount, staff)

	g.GET("/loyalty/program", loyalty.GetProgram)
	g.PUT("/loyalty/program", loyalty.SaveProgram, staff)

	g.GET("/notifications", notifications.List, staff)
	g.DELETE("/notifications", notifications.Clear, staff)
	g.POST("/notifications/read-all", notifications.ReadAll, staff)
	g.PUT("/notifications/:id/read", notifications.MarkRead, staff)
	g.GET("/notifications/stream", notifications.Stream, staff)

	g.GET("/stock", stock.ListStock, staff)
	g.GET("/stock/:variantId", stock.GetStock, staff)
	g.PUT("/stock/:variantId", stock.SetStock, staff)

	g.GET("/reviews", reviews.ListReviews)
	g.POST("/reviews", reviews.CreateReview)
	g.DELETE("/reviews/:id", reviews.DeleteReview, staff)

	g.GET("/reports/sales", reports.Sales, staff)
	g.GET("/reports/sales/export", reports.ExportSales, staff)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/acampos831/e-store-backend/internal/aws"
	"github.com/acampos831/e-store-backend/internal/cart"
	"github.com/acampos831/e-store-backend/internal/catalog"
	"github.com/acampos831/e-store-backend/internal/orders"
	"github.com/acampos831/e-store-backend/internal/shipping"
	"github.com/acampos831/e-store-backend/internal/users"
	"github.com/acampos831/e-store-backend/internal/validation"
)

// userHeader carries the authenticated user id, set by the upstream
// identity layer (API Gateway authorizer in front of the Lambda, or the
// dev proxy locally). This service trusts it.
const userHeader = "X-User-Id"

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI

	CartsTable    string
	OrdersTable   string
	ProductsTable string
	UsersTable    string

	OrderEventsQueueURL string
	MetricsNamespace    string
}

// api bundles the stores behind the route handlers.
type api struct {
	cfg       HandlerConfig
	validate  *validatorv10.Validate
	carts     *cart.Store
	orders    *orders.Store
	catalog   *catalog.Store
	users     *users.Store
	shipping  *shipping.Calculator
	publisher *aws.Publisher
	metrics   *aws.Recorder
}

// RegisterRoutes wires all storefront routes onto r.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	a := &api{
		cfg:      cfg,
		validate: validation.New(),
		carts:    cart.NewStore(cfg.DynamoDBClient, cfg.CartsTable),
		orders:   orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable),
		catalog:  catalog.NewStore(cfg.DynamoDBClient, cfg.ProductsTable),
		users:    users.NewStore(cfg.DynamoDBClient, cfg.UsersTable),
		shipping: shipping.NewCalculator(),
	}
	if cfg.SQSClient != nil {
		a.publisher = aws.NewPublisher(cfg.SQSClient, cfg.OrderEventsQueueURL)
	}
	if cfg.CloudWatchClient != nil {
		a.metrics = aws.NewRecorder(cfg.CloudWatchClient, cfg.MetricsNamespace)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/products", a.listProducts)
	r.GET("/products/:id", a.getProduct)
	r.POST("/shipping/quotes", a.quoteShipping)

	user := r.Group("/", a.requireUser)
	{
		user.GET("/cart", a.getCart)
		user.POST("/cart/items", a.addCartItem)
		user.PATCH("/cart/items/:productId", a.setCartItemQuantity)
		user.DELETE("/cart/items/:productId", a.removeCartItem)
		user.DELETE("/cart", a.clearCart)

		user.POST("/orders", a.createOrder)
		user.GET("/orders/:orderId", a.getOrder)
		user.POST("/orders/:orderId/payment", a.confirmPayment)

		user.POST("/users/ensure", a.ensureProfile)
		user.GET("/users/me", a.getProfile)
	}

	admin := r.Group("/", a.requireUser, a.requireAdmin)
	{
		admin.PUT("/products/:id", a.putProduct)
		admin.DELETE("/products/:id", a.deleteProduct)
		admin.PUT("/users/:userId/role", a.updateRole)
	}
}

// requireUser rejects requests without an authenticated user id.
func (a *api) requireUser(c *gin.Context) {
	if c.GetHeader(userHeader) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		c.Abort()
		return
	}
	c.Next()
}

// requireAdmin gates admin routes on the caller's stored profile role.
func (a *api) requireAdmin(c *gin.Context) {
	profile, err := a.users.Get(c.Request.Context(), c.GetHeader(userHeader))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_lookup_failed"})
		c.Abort()
		return
	}
	if profile == nil || profile.Role != users.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin_required"})
		c.Abort()
		return
	}
	c.Next()
}

func (a *api) userID(c *gin.Context) string {
	return c.GetHeader(userHeader)
}

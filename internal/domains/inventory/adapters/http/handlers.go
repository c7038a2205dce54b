package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	inventoryhttpmapper "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/adapters/http/mapper"
	inventoryapp "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/application"
	inventorytypes "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/application/types"
	inventoryports "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/rocketshoes-cart/internal/shared/errors"
)

// InventoryAPI wires HTTP transport with the inventory bounded context service.
type InventoryAPI struct {
	service   inventoryports.Service
	responder *apierrors.ChainedResponder
}

// NewInventoryAPI creates an InventoryAPI backed by the provided service.
func NewInventoryAPI(service inventoryports.Service) *InventoryAPI {
	return &InventoryAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapInventoryError),
	}
}

// Register mounts the catalog and stock routes.
func (api *InventoryAPI) Register(r gin.IRoutes) {
	r.GET("/products", api.ListProducts)
	r.GET("/products/:id", api.GetProduct)
	r.GET("/stock", api.ListStock)
	r.GET("/stock/:id", api.GetStock)
	r.PUT("/stock/:id", api.SetStock)
}

// Get /products
func (api *InventoryAPI) ListProducts(c *gin.Context) {
	products, err := api.service.Products(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventoryhttpmapper.FromDomainProducts(products))
}

// Get /products/:id
func (api *InventoryAPI) GetProduct(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	product, err := api.service.Product(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, "product", id, err)
		return
	}
	c.JSON(http.StatusOK, inventoryhttpmapper.FromDomainProduct(product))
}

// Get /stock
func (api *InventoryAPI) ListStock(c *gin.Context) {
	levels, err := api.service.StockLevels(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventoryhttpmapper.FromDomainStockLevels(levels))
}

// Get /stock/:id
func (api *InventoryAPI) GetStock(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	stock, err := api.service.Stock(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, "stock", id, err)
		return
	}
	c.JSON(http.StatusOK, inventoryhttpmapper.FromDomainStock(stock))
}

// Put /stock/:id
// Replaces the available amount of a product.
func (api *InventoryAPI) SetStock(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	var payload inventoryhttpmapper.StockUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.ValidationFailed(c, map[string]string{"amount": "required integer"})
		return
	}
	stock, err := api.service.SetStock(c.Request.Context(), inventorytypes.SetStockInput{ProductID: id, Amount: *payload.Amount})
	if err != nil {
		api.respondLookupError(c, "product", id, err)
		return
	}
	c.JSON(http.StatusOK, inventoryhttpmapper.FromDomainStock(stock))
}

func (api *InventoryAPI) parseIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.responder.BadRequest(c, "id must be a positive integer, got '"+raw+"'")
		return 0, false
	}
	return id, true
}

func (api *InventoryAPI) respondLookupError(c *gin.Context, resource string, id int64, err error) {
	if errors.Is(err, inventoryports.ErrNotFound) {
		api.responder.NotFound(c, resource, id)
		return
	}
	api.responder.RespondError(c, err)
}

func mapInventoryError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, inventoryapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, inventoryports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

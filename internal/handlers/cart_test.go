// internal/handlers/cart_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/miastore/storefront/internal/cart"
	"github.com/miastore/storefront/internal/config"
	"github.com/miastore/storefront/internal/middleware"
	"github.com/miastore/storefront/internal/models"
	"github.com/miastore/storefront/internal/services"
	"github.com/miastore/storefront/internal/utils"
)

// stubCatalog satisfies the cart service's product lookup without a
// database.
type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) GetActiveProduct(id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, services.ErrProductNotFound
}

// The cart endpoints are wired against the in-memory storage backend and
// a stubbed catalog, so every flow runs without redis or postgres.
type CartHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	storage services.CartStorage
	catalog *stubCatalog
	userID  uuid.UUID
	token   string
	product models.Product
}

func (suite *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	suite.product = models.Product{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		Name:          "Linen Shirt",
		Price:         40,
		StockQuantity: 10,
		Status:        models.ProductStatusActive,
	}
	suite.catalog = &stubCatalog{products: map[uuid.UUID]*models.Product{
		suite.product.ID: &suite.product,
	}}

	suite.storage = services.NewMemoryCartStorage()
	cartService := services.NewCartService(suite.catalog, suite.storage, config.CartConfig{
		FreeShippingThreshold: 100,
		ShippingFee:           10,
	})
	cartHandler := NewCartHandler(cartService)

	suite.router = gin.New()
	group := suite.router.Group("/cart")
	group.Use(middleware.AuthRequired())
	{
		group.GET("", cartHandler.GetCart)
		group.DELETE("", cartHandler.ClearCart)
		group.POST("/items", cartHandler.AddItem)
		group.PUT("/items/:lineId", cartHandler.UpdateQuantity)
		group.PUT("/items/:lineId/variants", cartHandler.UpdateVariants)
		group.DELETE("/items/:lineId", cartHandler.RemoveItem)
		group.GET("/quantity/:productId", cartHandler.GetItemQuantity)
	}

	suite.userID = uuid.New()
	token, err := utils.GenerateJWT(suite.userID, "shopper", 1)
	suite.Require().NoError(err)
	suite.token = token
}

func (suite *CartHandlerTestSuite) seedLine(lineID string, quantity int, size string) {
	err := suite.storage.Save(context.Background(), suite.userID.String(), []cart.Line{
		{
			ID:           lineID,
			Product:      suite.product,
			Quantity:     quantity,
			SelectedSize: size,
		},
	})
	suite.Require().NoError(err)
}

func (suite *CartHandlerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CartHandlerTestSuite) decodeSnapshot(w *httptest.ResponseRecorder) cart.Snapshot {
	var response struct {
		Success bool          `json:"success"`
		Data    cart.Snapshot `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	return response.Data
}

func (suite *CartHandlerTestSuite) TestGetCartEmpty() {
	w := suite.do("GET", "/cart", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Empty(suite.T(), snapshot.Lines)
	assert.Zero(suite.T(), snapshot.Subtotal)
}

func (suite *CartHandlerTestSuite) TestGetCartRequiresAuth() {
	req, _ := http.NewRequest("GET", "/cart", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *CartHandlerTestSuite) TestGetCartComputesTotals() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("GET", "/cart", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Len(suite.T(), snapshot.Lines, 1)
	assert.Equal(suite.T(), 2, snapshot.TotalItems)
	assert.Equal(suite.T(), 80.0, snapshot.Subtotal)
	assert.Equal(suite.T(), 10.0, snapshot.Shipping)
	assert.Equal(suite.T(), 90.0, snapshot.Total)
}

func (suite *CartHandlerTestSuite) TestAddItem() {
	w := suite.do("POST", "/cart/items", gin.H{
		"product_id":    suite.product.ID,
		"quantity":      2,
		"selected_size": "M",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Len(suite.T(), snapshot.Lines, 1)
	assert.Equal(suite.T(), 2, snapshot.Lines[0].Quantity)
	assert.Equal(suite.T(), "M", snapshot.Lines[0].SelectedSize)
	assert.Equal(suite.T(), 80.0, snapshot.Subtotal)
}

func (suite *CartHandlerTestSuite) TestAddItemMergesIdenticalVariant() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("POST", "/cart/items", gin.H{
		"product_id":    suite.product.ID,
		"quantity":      3,
		"selected_size": "M",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Len(suite.T(), snapshot.Lines, 1)
	assert.Equal(suite.T(), 5, snapshot.Lines[0].Quantity)
}

func (suite *CartHandlerTestSuite) TestAddItemUnknownProduct() {
	w := suite.do("POST", "/cart/items", gin.H{
		"product_id": uuid.New(),
		"quantity":   1,
	})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *CartHandlerTestSuite) TestAddItemMissingQuantity() {
	w := suite.do("POST", "/cart/items", gin.H{
		"product_id": suite.product.ID,
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// Stock is clamped against the sum over every variant line of the
// product, not only the line the add would merge into.
func (suite *CartHandlerTestSuite) TestAddItemStockSpansVariantLines() {
	suite.seedLine("line-1", 6, "M")

	w := suite.do("POST", "/cart/items", gin.H{
		"product_id":    suite.product.ID,
		"quantity":      5,
		"selected_size": "L",
	})

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *CartHandlerTestSuite) TestAddItemOutOfStock() {
	soldOut := models.Product{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		Name:          "Wool Scarf",
		Price:         25,
		StockQuantity: 0,
		Status:        models.ProductStatusActive,
	}
	suite.catalog.products[soldOut.ID] = &soldOut

	w := suite.do("POST", "/cart/items", gin.H{
		"product_id": soldOut.ID,
		"quantity":   1,
	})

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *CartHandlerTestSuite) TestUpdateQuantity() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("PUT", "/cart/items/line-1", gin.H{"quantity": 5})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Equal(suite.T(), 5, snapshot.Lines[0].Quantity)
}

func (suite *CartHandlerTestSuite) TestUpdateQuantityToZeroRemovesLine() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("PUT", "/cart/items/line-1", gin.H{"quantity": 0})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Empty(suite.T(), snapshot.Lines)
}

func (suite *CartHandlerTestSuite) TestUpdateQuantityBeyondStock() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("PUT", "/cart/items/line-1", gin.H{"quantity": 11})

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *CartHandlerTestSuite) TestUpdateVariants() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("PUT", "/cart/items/line-1/variants", gin.H{"selected_size": "L"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Equal(suite.T(), "L", snapshot.Lines[0].SelectedSize)
}

func (suite *CartHandlerTestSuite) TestRemoveItem() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("DELETE", "/cart/items/line-1", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	snapshot := suite.decodeSnapshot(w)
	assert.Empty(suite.T(), snapshot.Lines)
}

func (suite *CartHandlerTestSuite) TestClearCart() {
	suite.seedLine("line-1", 2, "M")

	w := suite.do("DELETE", "/cart", nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.do("GET", "/cart", nil)
	snapshot := suite.decodeSnapshot(w)
	assert.Empty(suite.T(), snapshot.Lines)
}

func (suite *CartHandlerTestSuite) TestGetItemQuantity() {
	suite.seedLine("line-1", 3, "M")

	w := suite.do("GET", "/cart/quantity/"+suite.product.ID.String(), nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Quantity int `json:"quantity"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), 3, response.Data.Quantity)
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

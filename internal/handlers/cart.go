// internal/handlers/cart.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/miastore/storefront/internal/services"
	"github.com/miastore/storefront/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.cartService.GetCart(c.Request.Context(), userID.String())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, snapshot)
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	snapshot, err := h.cartService.AddItem(c.Request.Context(), userID.String(), &req)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	utils.SuccessResponse(c, snapshot)
}

// PUT /cart/items/:lineId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	snapshot, err := h.cartService.UpdateQuantity(c.Request.Context(), userID.String(), c.Param("lineId"), req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	utils.SuccessResponse(c, snapshot)
}

// PUT /cart/items/:lineId/variants
func (h *CartHandler) UpdateVariants(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	snapshot, err := h.cartService.UpdateVariants(c.Request.Context(), userID.String(), c.Param("lineId"), &req)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	utils.SuccessResponse(c, snapshot)
}

// DELETE /cart/items/:lineId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.cartService.RemoveItem(c.Request.Context(), userID.String(), c.Param("lineId"))
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	utils.SuccessResponse(c, snapshot)
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID.String()); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.NoContentResponse(c)
}

// GET /cart/quantity/:productId
func (h *CartHandler) GetItemQuantity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quantity, err := h.cartService.ItemQuantity(c.Request.Context(), userID.String(), c.Param("productId"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": c.Param("productId"),
		"quantity":   quantity,
	})
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product")
	case errors.Is(err, services.ErrInsufficientStock):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

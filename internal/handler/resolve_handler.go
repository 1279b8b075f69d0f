package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftwise/internal/domain"
	"draftwise/internal/resolver"
	"draftwise/internal/service"
)

// ResolveClientRequest is the body of POST /resolve/clients.
type ResolveClientRequest struct {
	Client domain.ExtractedClient `json:"client"`
}

// ResolveProductRequest is the body of POST /resolve/products.
type ResolveProductRequest struct {
	Product resolver.ProductQuery `json:"product"`
}

// ResolveHandler handles entity resolution endpoints.
type ResolveHandler struct {
	resolveService service.ResolveService
}

// NewResolveHandler creates a new ResolveHandler.
func NewResolveHandler(resolveService service.ResolveService) *ResolveHandler {
	return &ResolveHandler{resolveService: resolveService}
}

// ResolveClient handles POST /api/v1/resolve/clients
// @Summary Match a client
// @Description Rank the caller's existing clients against a partial client
// @Tags resolve
// @Accept json
// @Produce json
// @Param request body ResolveClientRequest true "Partial client"
// @Success 200 {object} APIResponse "Top matches and confidence"
// @Security BearerAuth
// @Router /resolve/clients [post]
func (h *ResolveHandler) ResolveClient(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var req ResolveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.resolveService.ResolveClient(c.Request.Context(), userID, req.Client)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// ResolveProduct handles POST /api/v1/resolve/products
// @Summary Match a product
// @Description Rank the caller's existing products against a name and description
// @Tags resolve
// @Accept json
// @Produce json
// @Param request body ResolveProductRequest true "Partial product"
// @Success 200 {object} APIResponse "Top matches and confidence"
// @Security BearerAuth
// @Router /resolve/products [post]
func (h *ResolveHandler) ResolveProduct(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var req ResolveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.resolveService.ResolveProduct(c.Request.Context(), userID, req.Product)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

package handler

import (
	"net/http"

	"siwarapos/internal/apierror"
	"siwarapos/internal/dto"
	"siwarapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecipeHandler struct{ svc service.RecipeService }

func NewRecipeHandler(svc service.RecipeService) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

// Set godoc
// @Summary Replaces a product's full recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param body body dto.SetRecipeRequest true "Recipe lines (empty set clears)"
// @Success 200 {object} dto.RecipeResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/products/{id}/recipe [put]
func (h *RecipeHandler) Set(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	var req dto.SetRecipeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetRecipe(c.Request.Context(), productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Fetches a product's recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.RecipeResponse
// @Router /v1/products/{id}/recipe [get]
func (h *RecipeHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	resp, err := h.svc.GetRecipe(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

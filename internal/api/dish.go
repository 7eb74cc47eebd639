package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cooklog/backend/internal/middleware"
	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/service"
)

type DishHandler struct {
	dishService *service.DishService
}

func NewDishHandler(dishService *service.DishService) *DishHandler {
	return &DishHandler{dishService: dishService}
}

func (h *DishHandler) RegisterRoutes(router *gin.RouterGroup) {
	dishes := router.Group("/dishes")
	{
		dishes.GET("", h.ListDishes)
		dishes.GET("/:id", h.GetDish)
		dishes.POST("", h.CreateDish)
		dishes.PUT("/:id", h.UpdateDish)
		dishes.DELETE("/:id", h.DeleteDish)
	}
}

func (h *DishHandler) ListDishes(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filter := service.DishFilter{
		Query:        c.Query("q"),
		InactiveOnly: c.Query("active") == "0",
		Page:         queryInt(c, "page", 1),
		PerPage:      queryInt(c, "per_page", 20),
	}

	dishes, total, err := h.dishService.List(c.Request.Context(), userID, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes, "total": total, "page": filter.Page})
}

func (h *DishHandler) GetDish(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	dish, err := h.dishService.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dish)
}

func (h *DishHandler) CreateDish(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dish models.Dish
	req.Apply(&dish)

	if err := h.dishService.Create(c.Request.Context(), userID, &dish); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dish": dish})
}

func (h *DishHandler) UpdateDish(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.dishService.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	dish := existing.Dish
	req.Apply(&dish)
	if err := h.dishService.Save(c.Request.Context(), userID, &dish); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dish": dish})
}

func (h *DishHandler) DeleteDish(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.dishService.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

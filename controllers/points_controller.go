package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type PointsController struct {
	points *services.PointsService
}

func NewPointsController(points *services.PointsService) *PointsController {
	return &PointsController{points: points}
}

// PurchaseRequest names a package by its point amount. The price is recomputed server-side.
type PurchaseRequest struct {
	Amount int     `json:"amount" binding:"required"`
	Price  float64 `json:"price"`
}

func (pc *PointsController) Packages(c *gin.Context) {
	c.JSON(http.StatusOK, pc.points.Packages())
}

func (pc *PointsController) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := pc.points.Purchase(c.Request.Context(), middleware.CurrentUserID(c), req.Amount)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (pc *PointsController) Confirm(c *gin.Context) {
	res, err := pc.points.Confirm(c.Request.Context(), c.Param("payment_id"), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment confirmed",
		"points_added": res.PointsAdded,
		"new_balance":  res.NewBalance,
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/services"
	"sigmat-api/utils"
)

// SettingsController serves the public branding and payment settings.
type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.settings.Load(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sigmat-api/models"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AdminController) Login(c *gin.Context) {
	var req AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := ac.admin.Login(req.Username, req.Password)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "is_admin": true})
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	users, err := ac.admin.ListUsers(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ac *AdminController) UserProfile(c *gin.Context) {
	user, err := ac.admin.UserProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AdminController) UpdateUser(c *gin.Context) {
	var req services.UserAdminUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := ac.admin.UpdateUser(c.Request.Context(), c.Param("user_id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AddPoints reads the amount from the points query parameter.
func (ac *AdminController) AddPoints(c *gin.Context) {
	points, err := strconv.Atoi(c.Query("points"))
	if err != nil {
		utils.SendValidationError(c, "points must be an integer")
		return
	}

	balance, err := ac.admin.AddPoints(c.Request.Context(), c.Param("user_id"), points)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added " + strconv.Itoa(points) + " points", "points": balance})
}

func (ac *AdminController) DeleteUser(c *gin.Context) {
	if err := ac.admin.DeleteUser(c.Request.Context(), c.Param("user_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (ac *AdminController) GetSettings(c *gin.Context) {
	settings, err := ac.admin.Settings(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (ac *AdminController) UpdateSettings(c *gin.Context) {
	var req models.SettingsUpdate
	if !bindJSON(c, &req) {
		return
	}

	settings, err := ac.admin.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated", "settings": settings})
}

func (ac *AdminController) CreateBroadcast(c *gin.Context) {
	var req services.BroadcastInput
	if !bindJSON(c, &req) {
		return
	}

	broadcast, err := ac.admin.CreateBroadcast(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Broadcast sent", "id": broadcast.ID})
}

func (ac *AdminController) ListBroadcasts(c *gin.Context) {
	broadcasts, err := ac.admin.ListBroadcasts(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, broadcasts)
}

func (ac *AdminController) DeleteBroadcast(c *gin.Context) {
	if err := ac.admin.DeleteBroadcast(c.Request.Context(), c.Param("broadcast_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Broadcast deleted"})
}

func (ac *AdminController) Upload(c *gin.Context) {
	upload, ok := formUpload(c, services.MaxStoryMediaBytes)
	if !ok {
		return
	}

	url, err := ac.admin.Upload(c.Request.Context(), upload)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "filename": upload.Filename})
}

func (ac *AdminController) ListPayments(c *gin.Context) {
	payments, err := ac.admin.ListPayments(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (ac *AdminController) SendUserMessage(c *gin.Context) {
	var req services.DirectMessageInput
	if !bindJSON(c, &req) {
		return
	}

	notification, err := ac.admin.SendUserMessage(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent to user", "id": notification.ID})
}

func (ac *AdminController) PendingImages(c *gin.Context) {
	users, err := ac.admin.PendingImages(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ac *AdminController) ApproveImage(c *gin.Context) {
	if err := ac.admin.ApproveImage(c.Request.Context(), c.Param("user_id"), c.Param("photo_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image approved"})
}

func (ac *AdminController) RejectImage(c *gin.Context) {
	if err := ac.admin.RejectImage(c.Request.Context(), c.Param("user_id"), c.Param("photo_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image rejected and removed"})
}

func (ac *AdminController) ApproveProfilePhoto(c *gin.Context) {
	if err := ac.admin.ApproveProfilePhoto(c.Request.Context(), c.Param("user_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile photo approved"})
}

func (ac *AdminController) RejectProfilePhoto(c *gin.Context) {
	if err := ac.admin.RejectProfilePhoto(c.Request.Context(), c.Param("user_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile photo rejected and removed"})
}

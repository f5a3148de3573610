package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/models"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type UserController struct {
	accounts *services.AccountService
	chat     *services.ChatService
}

func NewUserController(accounts *services.AccountService, chat *services.ChatService) *UserController {
	return &UserController{accounts: accounts, chat: chat}
}

type BlockRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.accounts.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UploadProfilePhoto(c *gin.Context) {
	upload, ok := formUpload(c, services.MaxPhotoBytes)
	if !ok {
		return
	}

	url, err := uc.accounts.UploadProfilePhoto(c.Request.Context(), middleware.CurrentUserID(c), upload)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "message": "Profile photo updated"})
}

func (uc *UserController) AddGalleryPhoto(c *gin.Context) {
	upload, ok := formUpload(c, services.MaxPhotoBytes)
	if !ok {
		return
	}

	photo, err := uc.accounts.AddGalleryPhoto(c.Request.Context(), middleware.CurrentUserID(c), upload)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": photo, "message": "Photo added to gallery"})
}

func (uc *UserController) DeleteGalleryPhoto(c *gin.Context) {
	if err := uc.accounts.DeleteGalleryPhoto(c.Request.Context(), middleware.CurrentUserID(c), c.Param("photo_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted from gallery"})
}

func (uc *UserController) Search(c *gin.Context) {
	var req services.SearchQuery
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	users, err := uc.accounts.Search(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.accounts.GetUser(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("user_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) Block(c *gin.Context) {
	var req BlockRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := uc.accounts.Block(c.Request.Context(), middleware.CurrentUserID(c), req.UserID); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

func (uc *UserController) Unblock(c *gin.Context) {
	var req BlockRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := uc.accounts.Unblock(c.Request.Context(), middleware.CurrentUserID(c), req.UserID); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

func (uc *UserController) BlockedList(c *gin.Context) {
	users, err := uc.accounts.BlockedList(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteContact erases the whole conversation with a user.
func (uc *UserController) DeleteContact(c *gin.Context) {
	if _, err := uc.chat.DeleteConversation(c.Request.Context(), middleware.CurrentUserID(c), c.Param("user_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact and messages deleted"})
}

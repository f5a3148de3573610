package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/models"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

type SendMessageRequest struct {
	ReceiverID  string             `json:"receiver_id" binding:"required"`
	Content     string             `json:"content" binding:"required"`
	MessageType models.MessageType `json:"message_type"`
}

func (cc *ChatController) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := cc.chat.Send(c.Request.Context(), middleware.CurrentUserID(c), req.ReceiverID, req.Content, req.MessageType)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Message sent",
		"message_id":       res.MessageID,
		"remaining_points": res.RemainingPoints,
	})
}

// SendMedia takes multipart fields receiver_id, message_type and file.
func (cc *ChatController) SendMedia(c *gin.Context) {
	receiverID := c.PostForm("receiver_id")
	if receiverID == "" {
		utils.SendValidationError(c, "receiver_id is required")
		return
	}
	upload, ok := formUpload(c, services.MaxChatVideoBytes)
	if !ok {
		return
	}

	messageType := models.MessageType(c.PostForm("message_type"))
	res, err := cc.chat.SendMedia(c.Request.Context(), middleware.CurrentUserID(c), receiverID, messageType, upload)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Media sent",
		"message_id":       res.MessageID,
		"remaining_points": res.RemainingPoints,
		"content":          res.Content,
	})
}

func (cc *ChatController) DeleteMessage(c *gin.Context) {
	if err := cc.chat.Delete(c.Request.Context(), c.Param("message_id"), middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

func (cc *ChatController) DeleteConversation(c *gin.Context) {
	if _, err := cc.chat.DeleteConversation(c.Request.Context(), middleware.CurrentUserID(c), c.Param("partner_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}

func (cc *ChatController) Conversations(c *gin.Context) {
	conversations, err := cc.chat.ListConversations(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (cc *ChatController) Thread(c *gin.Context) {
	thread, err := cc.chat.FetchThread(c.Request.Context(), middleware.CurrentUserID(c), c.Param("partner_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

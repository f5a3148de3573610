package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/models"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type FriendController struct {
	friends *services.FriendService
}

func NewFriendController(friends *services.FriendService) *FriendController {
	return &FriendController{friends: friends}
}

type FriendRequestBody struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
}

func (fc *FriendController) SendFriendRequest(c *gin.Context) {
	var req FriendRequestBody
	if !bindJSON(c, &req) {
		return
	}

	res, err := fc.friends.SendRequest(c.Request.Context(), middleware.CurrentUserID(c), req.ReceiverID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	if res.Status == models.FriendRequestStatusAccepted {
		c.JSON(http.StatusOK, gin.H{
			"message":       "You are now friends!",
			"status":        res.Status,
			"request_id":    res.RequestID,
			"friendship_id": res.FriendshipID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent", "status": res.Status, "request_id": res.RequestID})
}

func (fc *FriendController) ReceivedRequests(c *gin.Context) {
	requests, err := fc.friends.ListReceived(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (fc *FriendController) SentRequests(c *gin.Context) {
	requests, err := fc.friends.ListSent(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (fc *FriendController) AcceptFriendRequest(c *gin.Context) {
	friendship, err := fc.friends.Accept(c.Request.Context(), c.Param("request_id"), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted", "friendship_id": friendship.ID})
}

func (fc *FriendController) RejectFriendRequest(c *gin.Context) {
	if err := fc.friends.Reject(c.Request.Context(), c.Param("request_id"), middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected"})
}

func (fc *FriendController) CancelFriendRequest(c *gin.Context) {
	if err := fc.friends.Cancel(c.Request.Context(), c.Param("request_id"), middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request cancelled"})
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	friends, err := fc.friends.ListFriends(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func (fc *FriendController) RemoveFriend(c *gin.Context) {
	if err := fc.friends.Remove(c.Request.Context(), middleware.CurrentUserID(c), c.Param("friend_id")); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// CheckFriendship reports the relation between the caller and another user.
func (fc *FriendController) CheckFriendship(c *gin.Context) {
	if middleware.CurrentIdentity(c).IsPrivileged() {
		c.JSON(http.StatusOK, gin.H{"status": "admin"})
		return
	}

	check, err := fc.friends.Status(c.Request.Context(), middleware.CurrentUserID(c), c.Param("user_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

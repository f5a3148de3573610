package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/models"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type StoryController struct {
	stories *services.StoryService
}

func NewStoryController(stories *services.StoryService) *StoryController {
	return &StoryController{stories: stories}
}

type CreateStoryRequest struct {
	Content       string                 `json:"content"`
	MediaURL      string                 `json:"media_url"`
	MediaType     models.MessageType     `json:"media_type"`
	Visibility    models.StoryVisibility `json:"visibility"`
	AllowComments *bool                  `json:"allow_comments"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (sc *StoryController) CreateStory(c *gin.Context) {
	var req CreateStoryRequest
	if !bindJSON(c, &req) {
		return
	}

	allowComments := req.AllowComments == nil || *req.AllowComments
	story, err := sc.stories.Post(c.Request.Context(), middleware.CurrentUserID(c), models.NewStory{
		Content:       req.Content,
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		Visibility:    req.Visibility,
		AllowComments: allowComments,
	})
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story created", "story_id": story.ID})
}

// UploadStory takes multipart fields file, content, visibility and allow_comments.
func (sc *StoryController) UploadStory(c *gin.Context) {
	upload, ok := formUpload(c, services.MaxStoryMediaBytes)
	if !ok {
		return
	}

	allowComments := true
	if raw := c.PostForm("allow_comments"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.SendValidationError(c, "allow_comments must be true or false")
			return
		}
		allowComments = parsed
	}

	story, err := sc.stories.Upload(c.Request.Context(), middleware.CurrentUserID(c), upload, models.NewStory{
		Content:       c.PostForm("content"),
		Visibility:    models.StoryVisibility(c.PostForm("visibility")),
		AllowComments: allowComments,
	})
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story created", "story_id": story.ID})
}

func (sc *StoryController) Feed(c *gin.Context) {
	stories, err := sc.stories.Feed(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (sc *StoryController) MyStories(c *gin.Context) {
	stories, err := sc.stories.Mine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (sc *StoryController) UserStories(c *gin.Context) {
	stories, err := sc.stories.ByAuthor(c.Request.Context(), middleware.CurrentUserID(c), c.Param("user_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (sc *StoryController) Like(c *gin.Context) {
	liked, count, err := sc.stories.Like(c.Request.Context(), c.Param("story_id"), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	message := "Story unliked"
	if liked {
		message = "Story liked"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "liked": liked, "likes_count": count})
}

func (sc *StoryController) Share(c *gin.Context) {
	shares, err := sc.stories.Share(c.Request.Context(), c.Param("story_id"), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story shared", "shares": shares})
}

func (sc *StoryController) Comment(c *gin.Context) {
	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := sc.stories.Comment(c.Request.Context(), c.Param("story_id"), middleware.CurrentUserID(c), req.Content)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment added", "comment_id": comment.ID, "comment": comment})
}

func (sc *StoryController) Comments(c *gin.Context) {
	comments, err := sc.stories.Comments(c.Request.Context(), c.Param("story_id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (sc *StoryController) DeleteStory(c *gin.Context) {
	if err := sc.stories.DeleteStory(c.Request.Context(), c.Param("story_id"), middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story deleted"})
}

func (sc *StoryController) DeleteComment(c *gin.Context) {
	if err := sc.stories.DeleteComment(c.Request.Context(), c.Param("comment_id"), middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

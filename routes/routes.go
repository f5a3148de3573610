package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sigmat-api/config"
	"sigmat-api/controllers"
	"sigmat-api/metrics"
	"sigmat-api/middleware"
	"sigmat-api/repositories"
	"sigmat-api/services"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Users         repositories.UserRepository
	Tokens        *services.TokenService
	Accounts      *services.AccountService
	Friends       *services.FriendService
	Points        *services.PointsService
	Chat          *services.ChatService
	Stories       *services.StoryService
	Notifications *services.NotificationService
	Settings      *services.SettingsService
	Admin         *services.AdminService
}

// SetupCORS allows the configured origins; "*" allows any.
func SetupCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(cfg *config.Config, svc Services, limiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(SetupCORS(cfg.CORSOrigins))
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter, cfg.RateLimitPerMinute))
	}
	r.Use(middleware.ValidateJSON())

	SetupRoutes(r, svc)
	return r
}

func SetupRoutes(r *gin.Engine, svc Services) {
	authController := controllers.NewAuthController(svc.Accounts)
	userController := controllers.NewUserController(svc.Accounts, svc.Chat)
	friendController := controllers.NewFriendController(svc.Friends)
	chatController := controllers.NewChatController(svc.Chat)
	pointsController := controllers.NewPointsController(svc.Points)
	storyController := controllers.NewStoryController(svc.Stories)
	notificationController := controllers.NewNotificationController(svc.Notifications)
	settingsController := controllers.NewSettingsController(svc.Settings)
	adminController := controllers.NewAdminController(svc.Admin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "SIGMAT API - Dating & Chat Platform"})
	})
	api.GET("/settings", settingsController.GetSettings)
	api.GET("/points/packages", pointsController.Packages)

	// Public auth routes
	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)
	api.POST("/admin/login", adminController.Login)

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(svc.Tokens, svc.Users))
	{
		authed.GET("/auth/me", authController.Me)
		authed.GET("/users/:user_id", userController.GetUser)
		authed.GET("/friends/check/:user_id", friendController.CheckFriendship)
	}

	// Routes that act as a user; the admin identity is refused
	user := authed.Group("/")
	user.Use(middleware.RequireHuman())
	{
		user.PUT("/profile", userController.UpdateProfile)
		user.POST("/profile/photo", userController.UploadProfilePhoto)
		user.POST("/profile/gallery", userController.AddGalleryPhoto)
		user.DELETE("/profile/gallery/:photo_id", userController.DeleteGalleryPhoto)

		user.POST("/users/search", userController.Search)
		user.POST("/users/block", userController.Block)
		user.POST("/users/unblock", userController.Unblock)
		user.GET("/users/blocked/list", userController.BlockedList)
		user.DELETE("/users/contact/:user_id", userController.DeleteContact)

		user.POST("/friends/request", friendController.SendFriendRequest)
		user.GET("/friends/requests/received", friendController.ReceivedRequests)
		user.GET("/friends/requests/sent", friendController.SentRequests)
		user.POST("/friends/requests/:request_id/accept", friendController.AcceptFriendRequest)
		user.POST("/friends/requests/:request_id/reject", friendController.RejectFriendRequest)
		user.DELETE("/friends/requests/:request_id/cancel", friendController.CancelFriendRequest)
		user.GET("/friends/list", friendController.GetFriends)
		user.DELETE("/friends/:friend_id", friendController.RemoveFriend)

		user.POST("/chat/send", chatController.SendMessage)
		user.POST("/chat/send-media", chatController.SendMedia)
		user.DELETE("/chat/message/:message_id", chatController.DeleteMessage)
		user.DELETE("/chat/conversation/:partner_id", chatController.DeleteConversation)
		user.GET("/chat/conversations", chatController.Conversations)
		user.GET("/chat/:partner_id", chatController.Thread)

		user.POST("/points/purchase", pointsController.Purchase)
		user.POST("/points/confirm/:payment_id", pointsController.Confirm)

		user.GET("/notifications", notificationController.GetNotifications)
		user.PUT("/notifications/:notification_id/read", notificationController.MarkAsRead)

		user.POST("/stories", storyController.CreateStory)
		user.POST("/stories/upload", storyController.UploadStory)
		user.GET("/stories", storyController.Feed)
		user.GET("/stories/my", storyController.MyStories)
		user.GET("/stories/user/:user_id", storyController.UserStories)
		user.POST("/stories/:story_id/like", storyController.Like)
		user.POST("/stories/:story_id/share", storyController.Share)
		user.POST("/stories/:story_id/comment", storyController.Comment)
		user.GET("/stories/:story_id/comments", storyController.Comments)
		user.DELETE("/stories/:story_id", storyController.DeleteStory)
		user.DELETE("/stories/comment/:comment_id", storyController.DeleteComment)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", adminController.ListUsers)
		admin.PUT("/users/:user_id", adminController.UpdateUser)
		admin.POST("/users/:user_id/add-points", adminController.AddPoints)
		admin.DELETE("/users/:user_id", adminController.DeleteUser)
		admin.GET("/users/:user_id/profile", adminController.UserProfile)

		admin.GET("/settings", adminController.GetSettings)
		admin.PUT("/settings", adminController.UpdateSettings)

		admin.POST("/broadcast", adminController.CreateBroadcast)
		admin.GET("/broadcasts", adminController.ListBroadcasts)
		admin.DELETE("/broadcasts/:broadcast_id", adminController.DeleteBroadcast)

		admin.POST("/upload", adminController.Upload)
		admin.GET("/payments", adminController.ListPayments)
		admin.POST("/send-user-message", adminController.SendUserMessage)

		admin.GET("/pending-images", adminController.PendingImages)
		admin.PUT("/images/:user_id/:photo_id/approve", adminController.ApproveImage)
		admin.PUT("/images/:user_id/:photo_id/reject", adminController.RejectImage)
		admin.PUT("/profile-photo/:user_id/approve", adminController.ApproveProfilePhoto)
		admin.PUT("/profile-photo/:user_id/reject", adminController.RejectProfilePhoto)
	}
}

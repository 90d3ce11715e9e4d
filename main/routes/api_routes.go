package routes

import (
	"flockr/admin"
	"flockr/auth"
	"flockr/channels"
	"flockr/chatroom"
	"flockr/db"
	"flockr/kahio"
	"flockr/mail"
	"flockr/messages"
	"flockr/scheduler"
	"flockr/standup"
	"flockr/users"

	"github.com/gin-gonic/gin"
)

// Services holds every request handler, all sharing one store and one
// scheduler.
type Services struct {
	Auth     *auth.Service
	Channels *channels.Service
	Messages *messages.Service
	Standup  *standup.Service
	Users    *users.Service
	Admin    *admin.Service
	Hub      *chatroom.Hub
}

func NewServices(store *db.Store, sched *scheduler.Scheduler, mailer mail.Mailer, signingKey string, weather messages.Weather) *Services {
	authService := auth.NewService(store, mailer, signingKey)
	kahioService := kahio.NewService(store, sched)
	hub := chatroom.NewHub(store, authService)
	store.SetNotifier(hub)

	return &Services{
		Auth:     authService,
		Channels: channels.NewService(store, authService),
		Messages: messages.NewService(store, authService, kahioService, weather, sched),
		Standup:  standup.NewService(store, authService, sched),
		Users:    users.NewService(store, authService),
		Admin:    admin.NewService(store, authService, sched),
		Hub:      hub,
	}
}

func SetupAPIRoutes(r *gin.Engine, s *Services) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.Auth.HandleRegister)
		authGroup.POST("/login", s.Auth.HandleLogin)
		authGroup.POST("/logout", s.Auth.HandleLogout)
		authGroup.POST("/passwordreset/request", s.Auth.HandlePasswordResetRequest)
		authGroup.POST("/passwordreset/reset", s.Auth.HandlePasswordReset)
	}

	channel := r.Group("/channel")
	{
		channel.POST("/invite", s.Channels.HandleInvite)
		channel.POST("/leave", s.Channels.HandleLeave)
		channel.POST("/join", s.Channels.HandleJoin)
		channel.POST("/addowner", s.Channels.HandleAddOwner)
		channel.POST("/removeowner", s.Channels.HandleRemoveOwner)
		channel.GET("/details", s.Channels.HandleDetails)
		channel.GET("/messages", s.Channels.HandleMessages)
	}

	channelList := r.Group("/channels")
	{
		channelList.GET("/list", s.Channels.HandleList)
		channelList.GET("/listall", s.Channels.HandleListAll)
		channelList.POST("/create", s.Channels.HandleCreate)
	}

	message := r.Group("/message")
	{
		message.POST("/send", s.Messages.HandleSend)
		message.POST("/sendlater", s.Messages.HandleSendLater)
		message.POST("/react", s.Messages.HandleReact)
		message.POST("/unreact", s.Messages.HandleUnreact)
		message.POST("/pin", s.Messages.HandlePin)
		message.POST("/unpin", s.Messages.HandleUnpin)
		message.PUT("/edit", s.Messages.HandleEdit)
		message.DELETE("/remove", s.Messages.HandleRemove)
	}

	standupGroup := r.Group("/standup")
	{
		standupGroup.POST("/start", s.Standup.HandleStart)
		standupGroup.GET("/active", s.Standup.HandleActive)
		standupGroup.POST("/send", s.Standup.HandleSend)
	}

	user := r.Group("/user")
	{
		user.GET("/profile", s.Users.HandleProfile)
		user.PUT("/profile/setname", s.Users.HandleSetName)
		user.PUT("/profile/setemail", s.Users.HandleSetEmail)
		user.PUT("/profile/sethandle", s.Users.HandleSetHandle)
	}

	r.GET("/users/all", s.Users.HandleAll)
	r.POST("/admin/userpermission/change", s.Admin.HandleChangePermission)
	r.GET("/search", s.Messages.HandleSearch)
	r.DELETE("/clear", s.Admin.HandleClear)
	r.GET("/echo", admin.HandleEcho)
}

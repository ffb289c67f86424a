package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-banter/internal/infrastructure/auth"
	cacheport "go-banter/internal/infrastructure/cache/port"
	queueport "go-banter/internal/infrastructure/queue/port"
	"go-banter/internal/infrastructure/realtime"
	repoAdapter "go-banter/internal/pkg/chat/persistence/repository/adapter"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
	"go-banter/internal/pkg/chat/presentation/controller"
)

// Deps bundles the shared infrastructure handed to the chat endpoints.
type Deps struct {
	Pool     *pgxpool.Pool
	Cache    cacheport.Cache
	Queue    queueport.Client
	Verifier *auth.Verifier
	Realtime *realtime.Router
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router
// group. It constructs per-endpoint controllers over one shared repository and
// binds them directly to routes. All routes require authentication.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	var repo repository.ChatRepository = repoAdapter.NewPgChatRepository(deps.Pool)
	if deps.Cache != nil {
		repo = repoAdapter.NewCachedChatRepository(repo, deps.Cache)
	}

	sendCtl := controller.NewSendMessageController(repo, deps.Realtime, deps.Queue)
	getMsgsCtl := controller.NewGetMessagesController(repo, deps.Realtime)
	editCtl := controller.NewEditMessageController(repo, deps.Realtime)
	deleteCtl := controller.NewDeleteMessageController(repo, deps.Realtime)
	addReactCtl := controller.NewAddReactionController(repo, deps.Realtime)
	rmReactCtl := controller.NewRemoveReactionController(repo, deps.Realtime)
	forwardCtl := controller.NewForwardMessageController(repo, deps.Realtime, deps.Queue)
	directCtl := controller.NewDirectConversationController(repo)
	listConvCtl := controller.NewListConversationsController(repo)
	groupCtl := controller.NewCreateGroupController(repo, deps.Realtime)
	socketCtl := controller.NewChatSocketController(repo, deps.Realtime, deps.Queue)

	authed := g.Group("", auth.Middleware(deps.Verifier))

	authed.POST("/messages", sendCtl.Handle())
	authed.GET("/messages/conversation/:conversationId", getMsgsCtl.Handle())
	authed.PUT("/messages/:messageId", editCtl.Handle())
	authed.DELETE("/messages/:messageId", deleteCtl.Handle())
	authed.POST("/messages/:messageId/reaction", addReactCtl.Handle())
	authed.DELETE("/messages/:messageId/reaction", rmReactCtl.Handle())
	authed.POST("/messages/:messageId/forward", forwardCtl.Handle())

	authed.GET("/conversations", listConvCtl.Handle())
	authed.GET("/conversations/user/:userId", directCtl.Handle())
	authed.POST("/conversations/group", groupCtl.Handle())

	// Websocket handshake; the token may arrive as a query parameter since
	// browser websocket clients cannot set headers.
	authed.GET("/chat/ws", socketCtl.Handle())
}

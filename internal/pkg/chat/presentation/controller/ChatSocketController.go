package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-banter/internal/infrastructure/auth"
	queueport "go-banter/internal/infrastructure/queue/port"
	"go-banter/internal/infrastructure/realtime"
	chat "go-banter/internal/pkg/chat/application/domain"
	"go-banter/internal/pkg/chat/application/task"
	"go-banter/internal/pkg/chat/application/usecase"
	repository "go-banter/internal/pkg/chat/persistence/repository/port"
)

// Client-emitted event names. Part of the wire contract, do not rename.
const (
	eventJoinRoom    = "join_room"
	eventLeaveRoom   = "leave_room"
	eventSendMessage = "send_message"
	eventStartTyping = "start_typing"
	eventStopTyping  = "stop_typing"
	eventMessageSeen = "message_seen"
)

const (
	defaultReadTimeout = 60 * time.Second
	inflightTimeout    = 5 * time.Second
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. Frames in both directions are envelopes: {"event": ..., "data": ...}.
type ChatSocketController struct {
	router *realtime.Router
	typing *realtime.TypingTracker
	q      queueport.Client

	sendUC *usecase.SendMessageUseCase
	joinUC *usecase.JoinConversationUseCase
	seenUC *usecase.MarkSeenUseCase
}

func NewChatSocketController(repo repository.ChatRepository, router *realtime.Router, q queueport.Client) *ChatSocketController {
	return &ChatSocketController{
		router: router,
		typing: realtime.NewTypingTracker(),
		q:      q,
		sendUC: usecase.NewSendMessageUseCase(repo, router),
		joinUC: usecase.NewJoinConversationUseCase(repo),
		seenUC: usecase.NewMarkSeenUseCase(repo, router),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Tokens gate access; origin filtering is delegated to the edge proxy.
		return true
	},
}

// frameData covers every client-emitted payload; unused fields stay zero.
type frameData struct {
	ConversationID string  `json:"conversationId"`
	RecipientID    string  `json:"recipientId"`
	MessageID      string  `json:"messageId"`
	Content        string  `json:"content"`
	MessageType    string  `json:"messageType"`
	ReplyTo        *string `json:"replyTo"`
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handle upgrades the HTTP connection and processes envelope frames until the
// client disconnects. The connection auto-joins the caller's user room.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		userID := identity.UserID

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			log.Printf("chat socket: upgrade for user %s: %v", userID, err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.clearTyping(conn)
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, "connected", gin.H{"userId": userID})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}
			var fd frameData
			if len(frame.Data) > 0 {
				if err := json.Unmarshal(frame.Data, &fd); err != nil {
					ctl.replyError(conn, "bad_request", "invalid payload")
					continue
				}
			}

			switch frame.Event {
			case eventJoinRoom:
				ctl.handleJoin(c.Request.Context(), conn, fd)
			case eventLeaveRoom:
				ctl.handleLeave(conn, fd)
			case eventSendMessage:
				ctl.handleSend(c.Request.Context(), conn, fd)
			case eventStartTyping:
				ctl.handleTyping(conn, fd, true)
			case eventStopTyping:
				ctl.handleTyping(conn, fd, false)
			case eventMessageSeen:
				ctl.handleSeen(c.Request.Context(), conn, fd)
			default:
				ctl.replyError(conn, "unsupported_event", "unknown event")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(parent context.Context, conn *realtime.Connection, fd frameData) {
	if fd.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	ctx, cancel := context.WithTimeout(parent, inflightTimeout)
	defer cancel()

	err := ctl.joinUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: fd.ConversationID,
		UserID:         conn.UserID,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	ctl.router.Join(realtime.ConversationRoom(fd.ConversationID), conn)
	ctl.reply(conn, "joined", gin.H{"conversationId": fd.ConversationID})
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, fd frameData) {
	if fd.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	room := realtime.ConversationRoom(fd.ConversationID)
	ctl.typing.Stop(room, conn.UserID)
	ctl.router.Leave(room, conn)
	ctl.reply(conn, "left", gin.H{"conversationId": fd.ConversationID})
}

func (ctl *ChatSocketController) handleSend(parent context.Context, conn *realtime.Connection, fd frameData) {
	if fd.ConversationID == "" && fd.RecipientID == "" {
		ctl.replyError(conn, "bad_request", "conversationId or recipientId is required")
		return
	}

	ctx, cancel := context.WithTimeout(parent, inflightTimeout)
	defer cancel()

	result, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		SenderID:       conn.UserID,
		ConversationID: fd.ConversationID,
		RecipientID:    fd.RecipientID,
		Body:           fd.Content,
		MsgType:        chat.MessageType(fd.MessageType),
		ReplyTo:        fd.ReplyTo,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	// Fan-out excluded the sender; the ack carries their durable copy.
	ctl.reply(conn, chat.EventReceiveMessage, result.Message)

	if err := task.EnqueueNotifyMessage(ctx, ctl.q, result.Message, result.Recipients); err != nil {
		log.Printf("chat socket: enqueue notify: %v", err)
	}

	ctl.typing.Stop(realtime.ConversationRoom(result.Conversation.ID), conn.UserID)
}

func (ctl *ChatSocketController) handleTyping(conn *realtime.Connection, fd frameData, start bool) {
	if fd.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	room := realtime.ConversationRoom(fd.ConversationID)
	event := chat.EventUserTyping
	if start {
		ctl.typing.Start(room, conn.UserID)
	} else {
		ctl.typing.Stop(room, conn.UserID)
		event = chat.EventUserTypingStop
	}
	// Ephemeral relay: nothing is persisted and the sender is excluded.
	ctl.router.Emit(room, event, chat.UserTypingEvent{
		ConversationID: fd.ConversationID,
		UserID:         conn.UserID,
	}, conn.UserID)
}

func (ctl *ChatSocketController) handleSeen(parent context.Context, conn *realtime.Connection, fd frameData) {
	if fd.MessageID == "" {
		ctl.replyError(conn, "bad_request", "messageId is required")
		return
	}

	ctx, cancel := context.WithTimeout(parent, inflightTimeout)
	defer cancel()

	err := ctl.seenUC.Execute(ctx, usecase.MarkSeenInput{
		MessageID: fd.MessageID,
		UserID:    conn.UserID,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

// clearTyping drops any typing state left by a vanished connection so peers
// do not see a phantom typist.
func (ctl *ChatSocketController) clearTyping(conn *realtime.Connection) {
	for _, room := range ctl.router.Rooms(conn) {
		ctl.typing.Stop(room, conn.UserID)
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "user is not a participant in this conversation")
	case errors.Is(err, chat.ErrConversationNotFound), errors.Is(err, chat.ErrMessageNotFound):
		ctl.replyError(conn, "not_found", err.Error())
	case errors.Is(err, chat.ErrInvalidReference):
		ctl.replyError(conn, "invalid_reference", err.Error())
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, event string, data any) {
	payload, err := json.Marshal(realtime.Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	ctl.reply(conn, "error", gin.H{"code": code, "error": message})
}

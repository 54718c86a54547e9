package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"real-time-dm-api/handler"
	"real-time-dm-api/middleware"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*handler.UserHandler
	*handler.ChatHandler
	*handler.WebSocketHandler
}

func (rc *ConfigRoute) GetRoute() {
	rc.GetProtectedRoute()
	rc.GetWebSocketRoute()
}

func (rc *ConfigRoute) GetProtectedRoute() {
	app := rc.App.Group("/api/v1")
	app.Use(rc.Middleware.JWTProtected, rc.Middleware.ExtractUserID)

	app.Get("/users/me/unread", rc.UserHandler.GetUnreadCount)

	app.Get("/conversations", rc.ChatHandler.GetAllConversations)
	app.Post("/conversations", rc.ChatHandler.OpenConversation)
	app.Get("/conversations/:chatId", rc.ChatHandler.GetConversation)
	app.Get("/conversations/:chatId/messages", rc.ChatHandler.GetMessages)
	app.Post("/conversations/:chatId/messages", rc.ChatHandler.SendMessage)
	app.Put("/conversations/:chatId/seen", rc.ChatHandler.MarkSeen)
}

func (rc *ConfigRoute) GetWebSocketRoute() {
	rc.App.Use("/ws", rc.WebSocketHandler.Upgrade, rc.Middleware.JWTProtected, rc.Middleware.ExtractUserID)
	rc.App.Get("/ws", websocket.New(rc.WebSocketHandler.HandleWebSocket))
}

package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/config/common"
	"real-time-dm-api/dto/res"
	"real-time-dm-api/security"
)

const (
	jwtContextKey = "jwt"
	UserIDKey     = "user_id"
)

type Middleware struct {
	*common.Config
	Log          *logrus.Logger
	jwtProtected fiber.Handler
}

func NewMiddleware(config *common.Config, logger *logrus.Logger) *Middleware {
	m := &Middleware{Config: config, Log: logger}
	m.jwtProtected = jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: config.GetJwtConfig()},
		ContextKey: jwtContextKey,
		AuthScheme: "Bearer",
		// browsers cannot set headers on a websocket upgrade
		TokenLookup: "header:Authorization,query:token",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			m.Log.WithError(err).Error("Failed to validate JWT")
			return unauthorized(c, "Token is not valid")
		},
	})
	return m
}

func (middleware *Middleware) JWTProtected(c *fiber.Ctx) error {
	return middleware.jwtProtected(c)
}

// ExtractUserID reads the authenticated user id from the validated token.
func (middleware *Middleware) ExtractUserID(c *fiber.Ctx) error {
	token, ok := c.Locals(jwtContextKey).(*jwt.Token)
	if !ok {
		return unauthorized(c, "Missing token")
	}
	userID, err := security.UserIDFromClaims(token.Claims)
	if err != nil {
		middleware.Log.WithError(err).Error("Failed to extract user ID from token")
		return unauthorized(c, "Failed to extract user ID from token")
	}

	middleware.Log.Debug("User ID From Middleware: ", userID)
	c.Locals(UserIDKey, userID)
	return c.Next()
}

// UserID returns the id stored by ExtractUserID.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(res.ErrorResponse{
		Status:     fiber.ErrUnauthorized.Message,
		StatusCode: fiber.StatusUnauthorized,
		Error:      message,
	})
}

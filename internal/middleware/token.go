package middleware

import (
	"EmotionGolang/internal/entity"
	jwtPkg "EmotionGolang/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"strings"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

type tokenMiddleware struct {
	requiredRole string
}

func newTokenMiddleware(requiredRole string) *tokenMiddleware {
	return &tokenMiddleware{requiredRole: requiredRole}
}

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	authHeader := ctx.Get("Authorization")

	m.log.WithFields(logrus.Fields{
		"path":      ctx.Path(),
		"method":    ctx.Method(),
		"client_ip": clientIP,
	}).Debug("Operator request")

	if authHeader == "" {
		m.log.WithFields(logrus.Fields{
			"error": "Authorization header is missing",
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		m.log.WithFields(logrus.Fields{
			"error": "Authorization header format is invalid",
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(logrus.Fields{
			"error": "Invalid token claims",
		}).Warn("Token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	id, idOk := claims["id"].(string)
	username, usernameOk := claims["username"].(string)
	role, _ := claims["role"].(string)

	if !idOk || !usernameOk || id == "" || username == "" {
		m.log.WithFields(logrus.Fields{
			"error": "Token claims are missing required fields",
		}).Warn("Token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	if m.token.requiredRole != "" && role != m.token.requiredRole {
		m.log.WithFields(logrus.Fields{
			"operator_id": id,
			"role":        role,
		}).Warn("Operator role rejected")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden, operator role required",
		})
	}

	ctx.Locals(jwtPkg.OperatorLocalKey, entity.OperatorLoginData{
		ID:       id,
		Username: username,
		Role:     role,
	})

	m.log.WithField("operator_id", id).Info("Operator authenticated")
	return ctx.Next()
}

package middlewares

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
)

const actorKey = "actor"

// tokenRoles maps the role claim issued by the auth service onto an Actor role.
var tokenRoles = map[string]models.Role{
	"user":        models.RoleCustomer,
	"customer":    models.RoleCustomer,
	"franchise":   models.RoleFranchise,
	"delivery":    models.RoleDelivery,
	"masteradmin": models.RoleAdmin,
	"admin":       models.RoleAdmin,
}

// pathRoles is the :role segment of the status route.
var pathRoles = map[string]models.Role{
	"user":        models.RoleCustomer,
	"franchise":   models.RoleFranchise,
	"delivery":    models.RoleDelivery,
	"masteradmin": models.RoleAdmin,
}

// Auth verifies the bearer token and stores the resolved Actor.
func Auth(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return responses.Fail(c, fiber.StatusUnauthorized, "No auth token, access denied")
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			return responses.Fail(c, fiber.StatusUnauthorized, "Invalid authorization header format")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return responses.Fail(c, fiber.StatusUnauthorized, "Token verification failed, access denied")
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			return responses.Fail(c, fiber.StatusUnauthorized, err.Error())
		}

		SetActor(c, actor)
		return c.Next()
	}
}

func actorFromClaims(claims jwt.MapClaims) (models.Actor, error) {
	rawID, _ := claims["id"].(string)
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid id in token")
	}

	// Tokens without a role claim were issued to customers.
	rawRole, _ := claims["role"].(string)
	if rawRole == "" {
		rawRole = "user"
	}
	role, ok := tokenRoles[rawRole]
	if !ok {
		return models.Actor{}, fmt.Errorf("unknown role in token")
	}
	return models.Actor{Role: role, ID: id}, nil
}

// SetActor stores the caller for the rest of the chain.
func SetActor(c *fiber.Ctx, actor models.Actor) {
	c.Locals(actorKey, actor)
}

// ActorFrom returns the Actor stored by Auth.
func ActorFrom(c *fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(actorKey).(models.Actor)
	return actor, ok
}

// RequireRole lets only the listed roles through.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return responses.Fail(c, fiber.StatusUnauthorized, "Not authenticated")
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return responses.Fail(c, fiber.StatusForbidden, "Access denied for this role")
	}
}

// MatchRoleParam requires the :role path segment to name the caller's role.
func MatchRoleParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return responses.Fail(c, fiber.StatusUnauthorized, "Not authenticated")
		}
		role, known := pathRoles[c.Params(param)]
		if !known {
			return responses.Fail(c, fiber.StatusNotFound, "Unknown role")
		}
		if role != actor.Role {
			return responses.Fail(c, fiber.StatusForbidden, "Role does not match token")
		}
		return c.Next()
	}
}

// SignToken issues a token Auth accepts. Used by tooling and tests.
func SignToken(secret string, actor models.Actor, ttl time.Duration) (string, error) {
	role := "user"
	for claim, r := range pathRoles {
		if r == actor.Role {
			role = claim
		}
	}
	claims := jwt.MapClaims{
		"id":   actor.ID.Hex(),
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

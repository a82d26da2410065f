package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// MustGetIdentity extracts the session identity injected by the JWT
// middleware. On a missing or malformed identity it writes a 401 and returns
// false; the caller should return immediately.
func MustGetIdentity(c *gin.Context) (service.Identity, bool) {
	id, ok := OptionalIdentity(c)
	if !ok {
		response.Unauthorized(c, "Sign in to use this part of the application.")
		return service.Identity{}, false
	}
	return id, true
}

// OptionalIdentity extracts the session identity when one is present.
// Anonymous requests report false without writing a response.
func OptionalIdentity(c *gin.Context) (service.Identity, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return service.Identity{}, false
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return service.Identity{}, false
	}

	id := service.Identity{ID: userID}
	if v, ok := c.Get("display_name"); ok {
		id.DisplayName, _ = v.(string)
	}
	if v, ok := c.Get("period"); ok {
		id.Period, _ = v.(int)
	}
	if v, ok := c.Get("grade"); ok {
		id.Grade, _ = v.(int)
	}
	if v, ok := c.Get("admin"); ok {
		id.Admin, _ = v.(bool)
	}
	return id, true
}

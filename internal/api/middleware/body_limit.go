package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// BodyLimit caps the request body at maxBytes. Roster uploads set the
// ceiling; everything else is far below it.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.FailMessage(c, http.StatusRequestEntityTooLarge, "Payload Too Large", "The uploaded file is too large.")
				return
			}
		}
	}
}

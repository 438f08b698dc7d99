package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinGate adapts the net/http Gate to Gin. Install it with engine.Use so
// unmatched routes under the admin prefixes are gated too.
func GinGate(gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		gate.Wrap(next).ServeHTTP(c.Writer, c.Request)

		// The gate answered on its own: stop the Gin chain
		if !passed {
			c.Abort()
		}
	}
}

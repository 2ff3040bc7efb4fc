package middleware

import (
	"log"
	"net/http"

	"gosheet/domain/core"

	"github.com/gin-gonic/gin"
)

const documentIDKey = "documentID"

// RequireDocumentID parses the :id path parameter and aborts with 400 when it
// is not a document ID
func RequireDocumentID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseDocumentID(c.Param("id"))
		if err != nil {
			log.Printf("[RequireDocumentID] Rejected %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_INPUT"})
			return
		}
		c.Set(documentIDKey, id)
		c.Next()
	}
}

// DocumentID returns the ID stored by RequireDocumentID
func DocumentID(c *gin.Context) core.DocumentID {
	if v, ok := c.Get(documentIDKey); ok {
		if id, ok := v.(core.DocumentID); ok {
			return id
		}
	}
	return ""
}

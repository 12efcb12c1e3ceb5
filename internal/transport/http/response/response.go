package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Errors carry a single human-readable detail field; success bodies are the
// resource itself.

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, gin.H{"detail": detail})
}

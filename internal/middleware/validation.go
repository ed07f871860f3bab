package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uruhongore/academy/internal/app/models/dto"
)

// ValidatedBodyKey is where ValidateRequest stores the bound body
const ValidatedBodyKey = "validatedBody"

// ValidateRequest binds the JSON body into a fresh value from newObj and runs the binding
// rules. The result is stored under ValidatedBodyKey.
func ValidateRequest(newObj func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := newObj()
		if err := c.ShouldBindJSON(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
		c.Set(ValidatedBodyKey, obj)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateRequest, binding it directly when the
// route was mounted without the middleware
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	if v, ok := c.Get(ValidatedBodyKey); ok {
		if body, ok := v.(*T); ok {
			return body, true
		}
	}
	body := new(T)
	if !BindJSON(c, body) {
		return nil, false
	}
	return body, true
}

// BindJSON binds the request body into obj, writing a 400 response and returning false on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

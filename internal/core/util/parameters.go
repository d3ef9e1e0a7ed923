package util

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into T. A missing body yields the zero
// value so that field rules decide what is required.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	err := c.ShouldBindJSON(&params)

	if err != nil && !errors.Is(err, io.EOF) {
		return params, err
	}

	return params, nil
}

package api

import "github.com/gin-gonic/gin"

// envelope 统一响应包：{status: success|error, message, ...}。
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(200, envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message string, errs ...string) {
	c.JSON(code, envelope{
		Status:  "error",
		Message: message,
		Errors:  errs,
	})
}

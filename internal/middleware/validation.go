package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/chroniclecms/chronicle/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ValidationMiddleware struct {
	validate *validator.Validate
}

func NewValidationMiddleware() *ValidationMiddleware {
	validate := validator.New()
	return &ValidationMiddleware{validate: validate}
}

// ValidateRequestBody parses and validates the JSON body into the type
// the factory produces, then stores it in the gin context for the
// handler. An empty body validates the zero value, so optional request
// shapes stay optional.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		logger.GetLogger().Debug("Middleware: Validation request processing",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", clientIP),
		)

		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(c.Request.Body)
			if err != nil {
				logger.GetLogger().Error("Middleware: Failed to read request body",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				c.JSON(http.StatusBadRequest,
					constants.BuildErrorResponse("failed to read request body", nil))
				c.Abort()
				return
			}
		}

		// Restore body so the handler can read it again
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()

		if len(bodyBytes) > 0 {
			if err := json.Unmarshal(bodyBytes, request); err != nil {
				logger.GetLogger().Warn("Middleware: JSON unmarshaling failed",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Int("body_size", len(bodyBytes)),
					zap.Error(err),
				)
				c.JSON(http.StatusBadRequest,
					constants.BuildErrorResponse("invalid JSON body", err.Error()))
				c.Abort()
				return
			}
		}

		if err := m.validate.Struct(request); err != nil {
			var validationErrors []string

			for _, e := range err.(validator.ValidationErrors) {
				if fieldMessages := validation.CustomMessage(e.Field()); fieldMessages != nil {
					if msg, exists := fieldMessages[e.Tag()]; exists {
						validationErrors = append(validationErrors, msg)
						continue
					}
				}
				validationErrors = append(validationErrors, validation.DefaultMessage(e.Field(), e.Tag()))
			}

			logger.GetLogger().Warn("Middleware: Request validation failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", validationErrors),
			)

			c.JSON(http.StatusBadRequest,
				constants.BuildErrorResponse("validation failed", validationErrors))
			c.Abort()
			return
		}

		c.Set(constants.GinKeyRequestBody, request)

		c.Next()
	}
}

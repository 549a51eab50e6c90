// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic web framework, so the configuration
// packages may instantiate an engine without importing it directly.
// The REST resources (like usersrs) live in its sub-packages.
package gin

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/core/log"
)

// RequestIDHeader is the request and response header which carries
// the request ID.
const RequestIDHeader = "X-Request-ID"

// HandlerFunc is a gin-gonic middleware or request handler.
type HandlerFunc = gin.HandlerFunc

// Engine is the gin-gonic engine which routes the requests.
type Engine = gin.Engine

// New creates an engine using the given middlewares. Handlers may pass
// their *gin.Context as a context.Context, so values of the request
// context (such as the log attributes) are visible to the use cases.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger returns the request logging middleware.
func Logger() HandlerFunc {
	return gin.Logger()
}

// Recovery returns the middleware which recovers from panics and
// responds with the 500 status code.
func Recovery() HandlerFunc {
	return gin.Recovery()
}

// RequestID returns a middleware which takes the request ID from the
// RequestIDHeader (if it is a valid UUID) or generates a new one.
// The ID is echoed in the response headers and is attached to the
// request context as a request_id log attribute.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		ctx := log.WithAttrs(
			c.Request.Context(), slog.String("request_id", id),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

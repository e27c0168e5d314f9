// Package gin wraps the gin-gonic web framework, so the command line
// packages may create an engine without depending on gin directly.
// Requests are logged and panics are recovered using slog.
package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog/logger"
	"github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine
type H = gin.H

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs every request using l.
func Logger(l *slog.Logger) HandlerFunc {
	return logger.New(l)
}

// Recovery returns a middleware which recovers from panics, logs
// them using l, and responds with a 500 status code.
func Recovery(l *slog.Logger) HandlerFunc {
	return recovery.New(l)
}

// SetMode sets the gin mode, which may be debug, release, or test.
func SetMode(mode string) {
	gin.SetMode(mode)
}

// Package router wires HTTP handlers onto the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles all route registrars under a versioned API prefix.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// New creates a Router around an existing gin engine
func New(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register queues handlers for mounting during Setup
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup mounts every registered handler under /api/v1
func (r *Router) Setup() {
	v1 := r.engine.Group("/api/v1")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(v1)
	}
}

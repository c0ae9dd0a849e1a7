package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a group of routes under the API root
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the versioned API from domain route groups
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// NewRouter creates a new router on the given engine
func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
	}
}

// Register adds route registrars to the router
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup mounts all registered routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// route is a deferred route definition collected by a DomainGroup
type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup collects routes for one domain under a common prefix
type DomainGroup struct {
	prefix string
	routes []route
}

// NewDomainGroup creates a route group with the given prefix
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// GET registers a GET route
func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle("GET", path, handlers)
}

// POST registers a POST route
func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle("POST", path, handlers)
}

// PUT registers a PUT route
func (g *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle("PUT", path, handlers)
}

// DELETE registers a DELETE route
func (g *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle("DELETE", path, handlers)
}

func (g *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

// RegisterRoutes mounts the collected routes under the group prefix
func (g *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}

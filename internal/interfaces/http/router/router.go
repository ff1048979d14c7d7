// Package router assembles the gin engine: middleware chain, public routes
// and the authenticated /api/v1 areas.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Route is one method and path within an Area
type Route struct {
	Method   string
	Path     string
	handlers []gin.HandlerFunc
}

// Area groups the routes of one part of the API (invoices, reports, ...)
// under a shared prefix and optional middleware.
type Area struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []Route
}

// NewArea starts an empty area mounted at prefix
func NewArea(name, prefix string) *Area {
	return &Area{name: name, prefix: prefix}
}

// Use appends middleware that runs only for this area
func (a *Area) Use(mw ...gin.HandlerFunc) *Area {
	a.middleware = append(a.middleware, mw...)
	return a
}

// Handle adds a route. An empty p addresses the prefix itself.
func (a *Area) Handle(method, p string, handlers ...gin.HandlerFunc) *Area {
	a.routes = append(a.routes, Route{Method: method, Path: p, handlers: handlers})
	return a
}

func (a *Area) GET(p string, h ...gin.HandlerFunc) *Area  { return a.Handle(http.MethodGet, p, h...) }
func (a *Area) POST(p string, h ...gin.HandlerFunc) *Area { return a.Handle(http.MethodPost, p, h...) }
func (a *Area) PUT(p string, h ...gin.HandlerFunc) *Area  { return a.Handle(http.MethodPut, p, h...) }
func (a *Area) DELETE(p string, h ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodDelete, p, h...)
}

// Mount registers every route of the area on rg
func (a *Area) Mount(rg *gin.RouterGroup) {
	g := rg.Group(a.prefix, a.middleware...)
	for _, r := range a.routes {
		g.Handle(r.Method, r.Path, r.handlers...)
	}
}

// Name identifies the area in logs
func (a *Area) Name() string { return a.name }

// Paths lists "METHOD /prefix/path" for every route, in registration order
func (a *Area) Paths() []string {
	out := make([]string, len(a.routes))
	for i, r := range a.routes {
		full := a.prefix
		if r.Path != "" {
			full = path.Join(a.prefix, r.Path)
		}
		out[i] = r.Method + " " + full
	}
	return out
}

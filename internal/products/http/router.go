package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var availableEndpoints = []string{
	"GET /api/products - Get all products",
	"POST /api/products - Create new product",
	"PATCH /api/products/:id - Update product",
	"DELETE /api/products/:id - Delete product",
	"GET /health - Health check",
}

// RouterConfig controls the environment-dependent route behavior: static SPA
// serving only exists in production, other environments get diagnostic 404s.
type RouterConfig struct {
	Environment string
	StaticDir   string
}

func RegisterRoutes(router *gin.Engine, handler *Handler, cfg RouterConfig) {
	api := router.Group("/api")
	{
		api.GET("/products", handler.ListProducts)
		api.POST("/products", handler.CreateProduct)
		api.PATCH("/products/:id", handler.UpdateProduct)
		api.DELETE("/products/:id", handler.DeleteProduct)
	}

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(fallbackHandler(cfg))
}

// fallbackHandler routes everything unmatched: API paths get a structured 404
// listing the endpoints, non-API GETs serve the client app in production and
// a diagnostic 404 elsewhere.
func fallbackHandler(cfg RouterConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"success":            false,
				"error":              "API Not Found",
				"message":            "API endpoint '" + path + "' not found",
				"path":               path,
				"method":             c.Request.Method,
				"availableEndpoints": availableEndpoints,
			})
			return
		}

		if cfg.Environment == "production" && c.Request.Method == http.MethodGet {
			serveStatic(c, cfg.StaticDir, path)
			return
		}

		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "This route is only served in production. Use the client dev server.",
			"path":    path,
		})
	}
}

// serveStatic serves a real file when one exists under the dist dir and falls
// back to index.html so client-side routing keeps working.
func serveStatic(c *gin.Context, staticDir, path string) {
	candidate := filepath.Join(staticDir, filepath.Clean("/"+path))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		c.File(candidate)
		return
	}

	index := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Server Error",
			"message": "Unable to serve the application",
		})
		return
	}
	c.File(index)
}

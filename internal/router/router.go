package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labeler/internal/handler"
	"labeler/internal/middleware"
	"labeler/internal/web"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	corsOrigins []string,
	tmpl *template.Template,
	labelH *handler.LabelingHandler,
	apiH *handler.APIHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Review pages
	r.GET("/", labelH.Index)
	label := r.Group("/label/:id")
	label.GET("", labelH.Start)
	label.GET("/complete", labelH.Complete)
	label.GET("/:field", labelH.View)
	label.POST("/:field", labelH.Save)

	// JSON API
	v1 := r.Group("/api/v1")
	v1.Use(middleware.CORS(corsOrigins))
	v1.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	v1.GET("/documents", apiH.ListDocuments)
	v1.GET("/documents/:id/fields/:field", apiH.GetField)
	v1.PUT("/documents/:id/fields/:field", apiH.SaveField)
	v1.GET("/export", apiH.Export)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": "We could not find that page."})
	})

	return r
}

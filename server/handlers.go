package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires the write pipeline and the operational endpoints
// onto the router.
func RegisterRoutes(router *gin.Engine, pipeline *Pipeline) {
	router.POST("/", pipeline.CreatePost)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Keep this for fast debugging of deployments.
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

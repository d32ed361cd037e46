package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nagarik-sewa/internal/routing"
)

func (s *Server) catalogRoutes(g *gin.RouterGroup) {
	cat := s.deps.Catalog
	resolver := routing.NewResolver(cat)

	g.GET("/provinces", func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.Provinces())
	})
	g.GET("/provinces/:province/districts", func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.Districts(c.Param("province")))
	})
	g.GET("/districts/:district/cities", func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.Cities(c.Param("district")))
	})
	g.GET("/cities/:city/wards", func(c *gin.Context) {
		city := c.Param("city")
		c.JSON(http.StatusOK, gin.H{
			"city":      city,
			"available": cat.IsServiceAvailable(city),
			"wards":     cat.Wards(city),
		})
	})
	g.GET("/services", func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.Services())
	})
	g.GET("/services/:type/stages", func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.Stages(c.Param("type")))
	})
	g.GET("/resolve", func(c *gin.Context) {
		office, err := resolver.Resolve(c.Query("service_type"), c.Query("ward"))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, office)
	})
}

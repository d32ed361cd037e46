package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nagarik-sewa/internal/aggregation"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

type submitRequest struct {
	FullName          string `json:"full_name" binding:"required"`
	Email             string `json:"email" binding:"omitempty,email"`
	Phone             string `json:"phone"`
	CitizenshipNumber string `json:"citizenship_number"`
	Province          string `json:"province" binding:"required"`
	District          string `json:"district" binding:"required"`
	City              string `json:"city" binding:"required"`
	Ward              string `json:"ward"`
	Address           string `json:"address"`
	ServiceType       string `json:"service_type" binding:"required,servicetype"`
	Description       string `json:"description"`
}

func (r submitRequest) draft() models.Application {
	return models.Application{
		FullName:          r.FullName,
		Email:             r.Email,
		Phone:             r.Phone,
		CitizenshipNumber: r.CitizenshipNumber,
		Province:          r.Province,
		District:          r.District,
		City:              r.City,
		Ward:              r.Ward,
		Address:           r.Address,
		ServiceType:       r.ServiceType,
		Description:       r.Description,
	}
}

func (s *Server) submitApplication(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, bindError(err))
		return
	}
	app, err := s.deps.Applications.Submit(c.Request.Context(), identity(c).Role, req.draft())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (s *Server) getApplication(c *gin.Context) {
	app, err := s.deps.Applications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) trackApplication(c *gin.Context) {
	tracking, err := s.deps.Applications.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tracking)
}

func (s *Server) listMyApplications(c *gin.Context) {
	apps, err := s.deps.Applications.ListMine(c.Request.Context(), identity(c).Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) transitionApplication(c *gin.Context) {
	var patch models.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.fail(c, bindError(err))
		return
	}
	app, err := s.deps.Applications.Transition(c.Request.Context(), identity(c).Role, c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) deleteApplication(c *gin.Context) {
	if err := s.deps.Applications.Delete(c.Request.Context(), identity(c).Role, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) officeApplications(c *gin.Context) {
	opts, err := aggregation.ParseSort(c.Query("sort_by"), c.Query("order"))
	if err != nil {
		s.fail(c, err)
		return
	}
	apps, err := s.deps.Applications.OfficeApplications(c.Request.Context(), identity(c).Role, opts, c.Query("service_type"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) searchApplications(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.fail(c, errors.NewValidationError("size", "size must be between 1 and 100"))
			return
		}
		size = n
	}
	apps, err := s.deps.Applications.Search(c.Request.Context(), identity(c).Role, c.Query("q"), size)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) officeStats(c *gin.Context) {
	stats, err := s.deps.Applications.OfficeStats(c.Request.Context(), identity(c).Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) hierarchyStats(c *gin.Context) {
	stats, err := s.deps.Applications.HierarchyStats(c.Request.Context(), identity(c).Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ShootingSpeedHandler struct {
	service *service.ShootingSpeedService
}

func NewShootingSpeedHandler(service *service.ShootingSpeedService) *ShootingSpeedHandler {
	return &ShootingSpeedHandler{service: service}
}

// Accepted from a JSON body (create, update) or from query parameters
// (update). Unknown fields such as a client-side preview are ignored.
type shootingSpeedRequest struct {
	Name             string  `json:"name" form:"name" binding:"required"`
	Sequence         int     `json:"sequence" form:"sequence"`
	NumberShots      int     `json:"numberShots" form:"numberShots" binding:"min=0"`
	TimeBetweenShots float64 `json:"timeBetweenShots" form:"timeBetweenShots" binding:"min=0"`
	TimeRest         float64 `json:"timeRest" form:"timeRest" binding:"min=0"`
	Status           *bool   `json:"status" form:"status"`
}

func (r shootingSpeedRequest) input() service.ShootingSpeedInput {
	return service.ShootingSpeedInput{
		Name:             r.Name,
		Sequence:         r.Sequence,
		NumberShots:      r.NumberShots,
		TimeBetweenShots: r.TimeBetweenShots,
		TimeRest:         r.TimeRest,
		Status:           r.Status,
	}
}

// Handles GET /root/rate-profiles
func (h *ShootingSpeedHandler) List(c *gin.Context) {
	speeds, err := h.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shootingSpeeds": speeds})
}

// Handles GET /root/rate-profiles/:id
func (h *ShootingSpeedHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	speed, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if speed == nil {
		RespondError(c, http.StatusNotFound, "Shooting speed not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"shootingSpeed": speed})
}

// Handles POST /root/rate-profiles
func (h *ShootingSpeedHandler) Create(c *gin.Context) {
	var req shootingSpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	speed, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shootingSpeed": speed})
}

// Handles PUT /root/rate-profiles/:id
func (h *ShootingSpeedHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req shootingSpeedRequest
	var err error
	if c.ContentType() == binding.MIMEJSON {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		respondBindError(c, err)
		return
	}

	speed, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Shooting speed updated successfully",
		"shootingSpeed": speed,
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		RespondError(c, http.StatusBadRequest, "Invalid shooting speed ID",
			ErrorDetail{Field: "id", Message: "id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

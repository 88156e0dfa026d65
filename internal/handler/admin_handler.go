package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/response"
)

type courseAdmin interface {
	ListActive(ctx context.Context) ([]models.Course, error)
	Delete(ctx context.Context, req models.DeleteCourseRequest) (*models.Course, error)
}

type agentLister interface {
	ListAdvisors(ctx context.Context) ([]models.Agent, error)
}

// AdminHandler exposes course and agent maintenance to admin and root users.
type AdminHandler struct {
	courses courseAdmin
	agents  agentLister
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(courses courseAdmin, agents agentLister) *AdminHandler {
	return &AdminHandler{courses: courses, agents: agents}
}

// ListCourses godoc
// @Summary List published courses
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/list_courses.php [get]
func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"total": len(courses)})
}

// DeleteCourse godoc
// @Summary Delete or deactivate a course
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.DeleteCourseRequest true "Course to delete"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/delete_course.php [post]
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	var req models.DeleteCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delete payload"))
		return
	}

	course, err := h.courses.Delete(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": course, "soft": req.Soft})
}

// ListAgents godoc
// @Summary List advisor agents
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/list_agents.php [get]
func (h *AdminHandler) ListAgents(c *gin.Context) {
	agents, err := h.agents.ListAdvisors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, agents)
}

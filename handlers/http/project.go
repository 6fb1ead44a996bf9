package httpHandler

import (
	"net/http"

	"smartdrishti-server/entities"
	"smartdrishti-server/usecases"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	useCase *usecases.ProjectUseCase
}

func NewProjectHandler(useCase *usecases.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{useCase: useCase}
}

// CreateProject handles POST /api/projects (auth required)
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var project entities.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	project.UserID = c.GetString("userID")

	if err := h.useCase.CreateProject(&project); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"data":    project,
	})
}

// GetProject handles GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.useCase.GetProject(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

// ListProjects handles GET /api/projects
// Returns demo projects plus the caller's own when a token is present.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.useCase.ListProjects(c.GetString("userID"))
	if err != nil {
		respondInternal(c, "Failed to retrieve projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  projects,
		"count": len(projects),
	})
}

// UpdateProject handles PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var project entities.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	project.ID = c.Param("id")

	updated, err := h.useCase.UpdateProject(c.GetString("userID"), c.GetString("role"), &project)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"data":    updated,
	})
}

// DeleteProject handles DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.useCase.DeleteProject(c.GetString("userID"), c.GetString("role"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

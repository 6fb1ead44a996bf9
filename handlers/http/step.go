package httpHandler

import (
	"net/http"
	"path/filepath"

	"smartdrishti-server/entities"
	"smartdrishti-server/usecases"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StepHandler struct {
	useCase   *usecases.ProjectUseCase
	uploadDir string
}

func NewStepHandler(useCase *usecases.ProjectUseCase, uploadDir string) *StepHandler {
	return &StepHandler{useCase: useCase, uploadDir: uploadDir}
}

// GetSteps handles GET /api/projects/:id/steps
func (h *StepHandler) GetSteps(c *gin.Context) {
	steps, err := h.useCase.GetSteps(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  steps,
		"count": len(steps),
	})
}

// CreateStep handles POST /api/projects/:id/steps
func (h *StepHandler) CreateStep(c *gin.Context) {
	var step entities.Step
	if err := c.ShouldBindJSON(&step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.useCase.CreateStep(c.Param("id"), &step); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Step created successfully",
		"data":    step,
	})
}

// UpdateStep handles PUT /api/steps/:id
func (h *StepHandler) UpdateStep(c *gin.Context) {
	var step entities.Step
	if err := c.ShouldBindJSON(&step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	step.ID = c.Param("id")

	updated, err := h.useCase.UpdateStep(&step)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Step updated successfully",
		"data":    updated,
	})
}

// DeleteStep handles DELETE /api/steps/:id
func (h *StepHandler) DeleteStep(c *gin.Context) {
	if err := h.useCase.DeleteStep(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Step deleted successfully",
	})
}

// AddMedia handles POST /api/steps/:id/media
// Accepts either a multipart upload ("file" + "media_type") saved under the
// upload dir, or a JSON body referencing an already-hosted URL.
func (h *StepHandler) AddMedia(c *gin.Context) {
	stepID := c.Param("id")
	media := entities.StepMedia{}

	if file, err := c.FormFile("file"); err == nil {
		media.MediaType = c.DefaultPostForm("media_type", "image")
		filename := uuid.New().String() + filepath.Ext(file.Filename)
		dst := filepath.Join(h.uploadDir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			respondInternal(c, "Failed to store upload")
			return
		}
		media.MediaURL = "/uploads/" + filename
	} else {
		if err := c.ShouldBindJSON(&media); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"details": err.Error(),
			})
			return
		}
	}

	if err := h.useCase.AddMedia(stepID, &media); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Media added successfully",
		"data":    media,
	})
}

// DeleteMedia handles DELETE /api/media/:mediaId
func (h *StepHandler) DeleteMedia(c *gin.Context) {
	if err := h.useCase.DeleteMedia(c.Param("mediaId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Media deleted successfully",
	})
}

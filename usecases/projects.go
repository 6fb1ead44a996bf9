package usecases

import (
	"errors"
	"fmt"
	"math"

	"smartdrishti-server/entities"
	"smartdrishti-server/repositories"

	"gorm.io/gorm"
)

// ProjectSummary is a project with its progress computed from step rows.
type ProjectSummary struct {
	entities.Project
	TotalSteps     int `json:"total_steps"`
	CompletedSteps int `json:"completed_steps"`
	Progress       int `json:"progress"`
}

type ProjectUseCase struct {
	ProjectRepo repositories.ProjectRepository
	StepRepo    repositories.StepRepository
	MediaRepo   repositories.StepMediaRepository
}

func NewProjectUseCase(projectRepo repositories.ProjectRepository, stepRepo repositories.StepRepository, mediaRepo repositories.StepMediaRepository) *ProjectUseCase {
	return &ProjectUseCase{
		ProjectRepo: projectRepo,
		StepRepo:    stepRepo,
		MediaRepo:   mediaRepo,
	}
}

// ComputeProgress derives completion from step rows. A project with no steps
// is 0% complete; "working" counts as incomplete.
func ComputeProgress(steps []entities.Step) (total, completed, percent int) {
	total = len(steps)
	for _, s := range steps {
		if s.Status == entities.StepCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	percent = int(math.Round(float64(completed) * 100 / float64(total)))
	return total, completed, percent
}

func summarize(p entities.Project) ProjectSummary {
	total, completed, percent := ComputeProgress(p.Steps)
	return ProjectSummary{
		Project:        p,
		TotalSteps:     total,
		CompletedSteps: completed,
		Progress:       percent,
	}
}

// canModify implements the ownership rule: owners and admins may change a
// project, and demo projects are open to everyone.
func canModify(p *entities.Project, userID, role string) bool {
	return p.IsDemo || p.UserID == userID || role == "admin"
}

// CreateProject stores a new project, including any nested steps.
func (uc *ProjectUseCase) CreateProject(project *entities.Project) error {
	if project.Title == "" {
		return fmt.Errorf("project title is required: %w", ErrInvalid)
	}
	if project.Difficulty != "" &&
		project.Difficulty != "Easy" && project.Difficulty != "Medium" && project.Difficulty != "Hard" {
		return fmt.Errorf("difficulty must be Easy, Medium or Hard: %w", ErrInvalid)
	}
	return uc.ProjectRepo.Create(project)
}

// GetProject returns one project with nested steps, media and progress.
func (uc *ProjectUseCase) GetProject(id string) (*ProjectSummary, error) {
	if id == "" {
		return nil, fmt.Errorf("project id is required: %w", ErrInvalid)
	}
	project, err := uc.ProjectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %w", ErrNotFound)
		}
		return nil, err
	}
	s := summarize(*project)
	return &s, nil
}

// ListProjects returns demo projects plus the user's own, with progress.
func (uc *ProjectUseCase) ListProjects(userID string) ([]ProjectSummary, error) {
	projects, err := uc.ProjectRepo.ListVisible(userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, summarize(p))
	}
	return summaries, nil
}

// UpdateProject merges provided fields into an existing project.
func (uc *ProjectUseCase) UpdateProject(userID, role string, update *entities.Project) (*ProjectSummary, error) {
	existing, err := uc.ProjectRepo.GetByID(update.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %w", ErrNotFound)
		}
		return nil, err
	}
	if !canModify(existing, userID, role) {
		return nil, fmt.Errorf("project update %w", ErrForbidden)
	}

	if update.Title != "" {
		existing.Title = update.Title
	}
	if update.Difficulty != "" {
		existing.Difficulty = update.Difficulty
	}
	if update.EstimatedTime != "" {
		existing.EstimatedTime = update.EstimatedTime
	}
	if update.Description != "" {
		existing.Description = update.Description
	}

	if err := uc.ProjectRepo.Update(existing); err != nil {
		return nil, err
	}
	s := summarize(*existing)
	return &s, nil
}

// DeleteProject removes a project with its steps and media.
func (uc *ProjectUseCase) DeleteProject(userID, role, id string) error {
	existing, err := uc.ProjectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project %w", ErrNotFound)
		}
		return err
	}
	if !canModify(existing, userID, role) {
		return fmt.Errorf("project delete %w", ErrForbidden)
	}
	return uc.ProjectRepo.Delete(id)
}

// ============= Step operations =============

// CreateStep attaches a new step to an existing project.
func (uc *ProjectUseCase) CreateStep(projectID string, step *entities.Step) error {
	if step.Title == "" {
		return fmt.Errorf("step title is required: %w", ErrInvalid)
	}
	if _, err := uc.ProjectRepo.GetByID(projectID); err != nil {
		return fmt.Errorf("project %w", ErrNotFound)
	}
	step.ProjectID = projectID
	if step.Status != "" && !entities.ValidStepStatus(step.Status) {
		return fmt.Errorf("status must be not_started, working or completed: %w", ErrInvalid)
	}
	return uc.StepRepo.Create(step)
}

// GetSteps returns a project's steps in order.
func (uc *ProjectUseCase) GetSteps(projectID string) ([]entities.Step, error) {
	if _, err := uc.ProjectRepo.GetByID(projectID); err != nil {
		return nil, fmt.Errorf("project %w", ErrNotFound)
	}
	return uc.StepRepo.GetByProjectID(projectID)
}

// UpdateStep merges provided fields; the updated row is returned.
func (uc *ProjectUseCase) UpdateStep(update *entities.Step) (*entities.Step, error) {
	existing, err := uc.StepRepo.GetByID(update.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("step %w", ErrNotFound)
		}
		return nil, err
	}

	if update.Status != "" {
		if !entities.ValidStepStatus(update.Status) {
			return nil, fmt.Errorf("status must be not_started, working or completed: %w", ErrInvalid)
		}
		existing.Status = update.Status
	}
	if update.Title != "" {
		existing.Title = update.Title
	}
	if update.Description != "" {
		existing.Description = update.Description
	}
	if len(update.Components) > 0 {
		existing.Components = update.Components
	}
	if update.Connections != "" {
		existing.Connections = update.Connections
	}
	if update.Working != "" {
		existing.Working = update.Working
	}
	if update.Instructions != "" {
		existing.Instructions = update.Instructions
	}
	if update.Code != "" {
		existing.Code = update.Code
	}
	if update.Conclusion != "" {
		existing.Conclusion = update.Conclusion
	}
	if len(update.DetailedContent) > 0 {
		existing.DetailedContent = update.DetailedContent
	}
	if update.OrderNumber != 0 {
		existing.OrderNumber = update.OrderNumber
	}
	if update.StepNumber != 0 {
		existing.StepNumber = update.StepNumber
	}

	if err := uc.StepRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteStep removes a step and its media.
func (uc *ProjectUseCase) DeleteStep(id string) error {
	if _, err := uc.StepRepo.GetByID(id); err != nil {
		return fmt.Errorf("step %w", ErrNotFound)
	}
	return uc.StepRepo.Delete(id)
}

// ============= Media operations =============

// AddMedia attaches an image or video to a step.
func (uc *ProjectUseCase) AddMedia(stepID string, media *entities.StepMedia) error {
	if !entities.ValidMediaType(media.MediaType) {
		return fmt.Errorf("media_type must be image or video: %w", ErrInvalid)
	}
	if media.MediaURL == "" {
		return fmt.Errorf("media_url is required: %w", ErrInvalid)
	}
	if _, err := uc.StepRepo.GetByID(stepID); err != nil {
		return fmt.Errorf("step %w", ErrNotFound)
	}
	media.StepID = stepID
	return uc.MediaRepo.Create(media)
}

// DeleteMedia removes a single media row.
func (uc *ProjectUseCase) DeleteMedia(id string) error {
	if _, err := uc.MediaRepo.GetByID(id); err != nil {
		return fmt.Errorf("media %w", ErrNotFound)
	}
	return uc.MediaRepo.Delete(id)
}

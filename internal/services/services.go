package services

import (
	"gorm.io/gorm"

	"repodocs/internal/repositories"
)

// Services bundles the service layer for wiring at startup.
type Services struct {
	Runs        RunService
	Models      ModelService
	Credentials *CredentialStore
	Git         *GitService
	Docsite     *DocsiteService
	Generation  *GenerationService
}

// NewServices constructs the full service graph on top of the database.
func NewServices(db *gorm.DB, cfg GenerationConfig) (*Services, error) {
	modelS, err := NewModelService()
	if err != nil {
		return nil, err
	}
	runs := NewRunService(repositories.NewGenerationRunRepository(db))
	creds := NewCredentialStore()
	gitS := NewGitService()
	docsite := NewDocsiteService()
	return &Services{
		Runs:        runs,
		Models:      modelS,
		Credentials: creds,
		Git:         gitS,
		Docsite:     docsite,
		Generation:  NewGenerationService(cfg, runs, modelS, creds, gitS, docsite),
	}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"repodocs/internal/chunker"
	"repodocs/internal/events"
	"repodocs/internal/fetcher"
	"repodocs/internal/github"
	"repodocs/internal/llm/client"
	"repodocs/internal/models"
	"repodocs/internal/token"
)

// ErrNoMatchingSource is returned when the repository walk produced no files
// passing the extension filter.
var ErrNoMatchingSource = errors.New("no matching source found")

// GenerationConfig carries the tunable knobs of the documentation pipeline.
type GenerationConfig struct {
	WorkDir         string
	Extensions      []string
	MaxFileChars    int
	ChunkBudget     int
	DeepChunkBudget int
	Workers         int
	Attempts        int
	BaseDelay       time.Duration
	GitHubBaseURL   string
}

func (c *GenerationConfig) defaults() {
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "repodocs")
	}
	if len(c.Extensions) == 0 {
		c.Extensions = fetcher.DefaultExtensions
	}
	if c.MaxFileChars <= 0 {
		c.MaxFileChars = fetcher.MaxFileChars
	}
	if c.ChunkBudget <= 0 {
		c.ChunkBudget = chunker.DefaultBudget
	}
	if c.DeepChunkBudget <= 0 {
		c.DeepChunkBudget = chunker.DeepBudget
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Attempts <= 0 {
		c.Attempts = client.DefaultAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = client.DefaultBaseDelay
	}
}

// fragmentGenerator is the slice of LLMClient the pipeline needs.
type fragmentGenerator interface {
	GenerateFragment(ctx context.Context, chunk models.Chunk, total int, instructions string) (models.DocFragment, error)
	Provider() string
	ModelName() string
}

// GenerationService runs the full pipeline: acquire content, chunk it, feed
// each chunk to the model, assemble the fragments and build the doc site.
type GenerationService struct {
	cfg     GenerationConfig
	runs    RunService
	modelS  ModelService
	creds   *CredentialStore
	git     *GitService
	docsite *DocsiteService

	// Hooks so tests can substitute the remote and the model.
	newRemote    func(token string) fetcher.Remote
	newGenerator func(ctx context.Context, providerID, apiKey, apiName string, opts client.Options) (fragmentGenerator, error)

	mu         sync.Mutex
	inProgress map[string]bool
}

func NewGenerationService(cfg GenerationConfig, runs RunService, modelS ModelService, creds *CredentialStore, gitS *GitService, docsite *DocsiteService) *GenerationService {
	cfg.defaults()
	s := &GenerationService{
		cfg:        cfg,
		runs:       runs,
		modelS:     modelS,
		creds:      creds,
		git:        gitS,
		docsite:    docsite,
		inProgress: make(map[string]bool),
	}
	s.newRemote = func(tok string) fetcher.Remote {
		return github.NewClient(github.Config{BaseURL: cfg.GitHubBaseURL, Token: tok})
	}
	s.newGenerator = func(ctx context.Context, providerID, apiKey, apiName string, opts client.Options) (fragmentGenerator, error) {
		return client.NewClientForProvider(ctx, providerID, apiKey, apiName, opts)
	}
	return s
}

// RunDir returns the working directory of a run.
func (s *GenerationService) RunDir(runKey string) string {
	return filepath.Join(s.cfg.WorkDir, "runs", runKey)
}

// SiteDir returns the built doc site directory of a run.
func (s *GenerationService) SiteDir(runKey string) string {
	return filepath.Join(s.RunDir(runKey), "site")
}

func (s *GenerationService) markInProgress(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress[slug] {
		return fmt.Errorf("generation already in progress for %s", slug)
	}
	s.inProgress[slug] = true
	return nil
}

func (s *GenerationService) unmarkInProgress(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inProgress, slug)
}

// GenerateDocs executes one documentation run end to end.
func (s *GenerationService) GenerateDocs(ctx context.Context, req models.DocGenerationRequest) (*models.DocGenerationResult, error) {
	src, err := ParseRepoSource(req.RepoURL)
	if err != nil {
		return nil, err
	}
	llmModel, err := s.modelS.GetModel(req.ModelKey)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.creds.GetAPIKey(llmModel.ProviderID)
	if err != nil {
		return nil, err
	}

	slug := src.Slug()
	if err := s.markInProgress(slug); err != nil {
		return nil, err
	}
	defer s.unmarkInProgress(slug)

	gen, err := s.newGenerator(ctx, llmModel.ProviderID, apiKey, llmModel.APIName, client.Options{
		Attempts:  s.cfg.Attempts,
		BaseDelay: s.cfg.BaseDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", llmModel.ProviderID, err)
	}

	runKey := uuid.NewString()
	run, err := s.runs.Create(&models.GenerationRun{
		RunKey:   runKey,
		Owner:    src.Coordinate.Owner,
		Name:     src.Coordinate.Name,
		Source:   req.RepoURL,
		Provider: llmModel.ProviderID,
		ModelKey: llmModel.Key,
		Status:   models.RunStatusRunning,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	ctx = events.WithRun(ctx, runKey)

	result, err := s.execute(ctx, run, src, gen, req)
	if err != nil {
		s.failRun(run.ID, err)
		events.Emit(ctx, events.PipelineDone, events.NewError(fmt.Sprintf("run failed: %v", err)))
		return nil, err
	}
	return result, nil
}

func (s *GenerationService) execute(ctx context.Context, run *models.GenerationRun, src RepoSource, gen fragmentGenerator, req models.DocGenerationRequest) (*models.DocGenerationResult, error) {
	runDir := s.RunDir(run.RunKey)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	events.Emit(ctx, events.PipelineFetch, events.NewInfo("fetching repository contents"))
	records, failedDirs, err := s.acquire(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoMatchingSource
	}
	for _, dir := range failedDirs {
		events.Emit(ctx, events.PipelineFetch, events.NewWarn(fmt.Sprintf("skipped unreachable directory %s", dir)))
	}

	artifactPath := filepath.Join(runDir, "repo_code.txt")
	if err := writeCorpus(artifactPath, records); err != nil {
		return nil, err
	}

	events.Emit(ctx, events.PipelineChunk, events.NewInfo("splitting corpus into chunks"))
	budget := chunkBudgetForMode(req.Mode, s.cfg.ChunkBudget, s.cfg.DeepChunkBudget)
	chunks := chunker.New(token.NewEstimator(nil), budget).Chunk(records)
	log.Printf("run %s: %d files, %d chunks (budget %d)", run.RunKey, len(records), len(chunks), budget)

	events.Emit(ctx, events.PipelineGenerate, events.NewInfo("generating documentation fragments"))
	fragments := make([]models.DocFragment, 0, len(chunks))
	for _, ch := range chunks {
		frag, err := gen.GenerateFragment(ctx, ch, len(chunks), req.Instructions)
		if err != nil {
			return nil, fmt.Errorf("generation failed on chunk %d/%d: %w", ch.Index+1, len(chunks), err)
		}
		fragments = append(fragments, frag)
		events.Emit(ctx, events.PipelineGenerate, events.NewInfo(fmt.Sprintf("generated fragment %d/%d", frag.Index+1, len(chunks))))
	}

	sitePath, downloadURL := s.buildSite(ctx, run.RunKey, src, fragments)

	updates := map[string]interface{}{
		"status":         models.RunStatusSucceeded,
		"file_count":     len(records),
		"chunk_count":    len(chunks),
		"fragment_count": len(fragments),
		"failed_dirs":    strings.Join(failedDirs, ","),
		"artifact_path":  artifactPath,
		"site_path":      sitePath,
	}
	if err := s.runs.UpdateByID(run.ID, updates); err != nil {
		log.Printf("failed to update run %s: %v", run.RunKey, err)
	}
	events.Emit(ctx, events.PipelineDone, events.NewSuccess("documentation run complete"))

	return &models.DocGenerationResult{
		RunID:       run.ID,
		RunKey:      run.RunKey,
		Files:       len(records),
		Chunks:      len(chunks),
		Fragments:   len(fragments),
		FailedDirs:  failedDirs,
		DownloadURL: downloadURL,
	}, nil
}

// acquire obtains the file corpus either over the hosted contents API or by
// cloning and walking the working tree.
func (s *GenerationService) acquire(ctx context.Context, src RepoSource) ([]models.FileRecord, []string, error) {
	switch src.Kind {
	case SourceGitHub:
		coord := src.Coordinate
		coord.Token = s.creds.OptionalAPIKey("github")
		remote := s.newRemote(coord.Token)
		walker := fetcher.NewWalker(remote, s.cfg.Extensions, s.cfg.MaxFileChars)
		res, err := fetcher.NewCoordinator(remote, walker, s.cfg.Workers).FetchAll(ctx, coord)
		if err != nil {
			return nil, nil, err
		}
		return res.Records, res.FailedDirs, nil
	case SourceGit:
		dir, cleanup, err := s.git.CloneToTemp(ctx, src.CloneURL)
		if err != nil {
			return nil, nil, err
		}
		defer cleanup()
		if err := s.git.ValidateRepository(dir); err != nil {
			return nil, nil, err
		}
		records, err := fetcher.NewLocalWalker(s.cfg.Extensions, s.cfg.MaxFileChars).Walk(dir)
		if err != nil {
			return nil, nil, err
		}
		return records, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}

// buildSite scaffolds and builds the Sphinx site. A missing builder degrades
// to fragments only; the run still succeeds with its artifact.
func (s *GenerationService) buildSite(ctx context.Context, runKey string, src RepoSource, fragments []models.DocFragment) (sitePath, downloadURL string) {
	title := src.Slug()
	docsDir := filepath.Join(s.RunDir(runKey), "docs")
	if err := s.docsite.ScaffoldProject(docsDir, title); err != nil {
		log.Printf("run %s: doc site scaffold failed: %v", runKey, err)
		return "", ""
	}
	if err := s.docsite.WriteIndex(docsDir, title, fragments); err != nil {
		log.Printf("run %s: failed to write index: %v", runKey, err)
		return "", ""
	}
	if err := s.docsite.CheckBuilderAvailability(ctx); err != nil {
		events.Emit(ctx, events.PipelineBuild, events.NewWarn(fmt.Sprintf("doc site build skipped: %v", err)))
		return "", ""
	}
	events.Emit(ctx, events.PipelineBuild, events.NewInfo("building doc site"))
	indexPage, err := s.docsite.Build(ctx, docsDir, s.SiteDir(runKey))
	if err != nil {
		events.Emit(ctx, events.PipelineBuild, events.NewWarn(fmt.Sprintf("doc site build failed: %v", err)))
		return "", ""
	}
	pages, err := s.docsite.SiteFiles(s.SiteDir(runKey))
	if err != nil {
		log.Printf("run %s: listing built site: %v", runKey, err)
	}
	log.Printf("run %s: doc site built at %s (%d pages)", runKey, indexPage, len(pages))
	return s.SiteDir(runKey), "/site/" + runKey + "/index.html"
}

func (s *GenerationService) failRun(id uint, cause error) {
	msg := cause.Error()
	if len(msg) > 1024 {
		msg = msg[:1024]
	}
	if err := s.runs.UpdateByID(id, map[string]interface{}{
		"status":        models.RunStatusFailed,
		"error_message": msg,
	}); err != nil {
		log.Printf("failed to mark run %d failed: %v", id, err)
	}
}

// writeCorpus writes the concatenated corpus in the same block format chunks
// are built from, so the artifact and the chunks line up.
func writeCorpus(path string, records []models.FileRecord) error {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(chunker.FormatBlock(rec))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write corpus artifact: %w", err)
	}
	return nil
}

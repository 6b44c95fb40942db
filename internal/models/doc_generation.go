package models

// DocGenerationRequest is the payload accepted by the generate-docs endpoint.
type DocGenerationRequest struct {
	RepoURL      string `json:"repoUrl"`
	ModelKey     string `json:"model,omitempty"`
	Mode         string `json:"mode,omitempty"` // "standard" | "deep"
	Instructions string `json:"instructions,omitempty"`
}

// DocGenerationResult captures the outcome of a documentation generation run.
type DocGenerationResult struct {
	RunID       uint     `json:"runId"`
	RunKey      string   `json:"runKey"`
	Files       int      `json:"files"`
	Chunks      int      `json:"chunks"`
	Fragments   int      `json:"fragments"`
	FailedDirs  []string `json:"failedDirs,omitempty"`
	DownloadURL string   `json:"downloadUrl"`
}

// LLMModel represents a single language model option from the catalog.
type LLMModel struct {
	Key          string `json:"key"`
	DisplayName  string `json:"displayName"`
	APIName      string `json:"apiName"`
	ProviderID   string `json:"providerId"`
	ProviderName string `json:"providerName"`
	Default      bool   `json:"default,omitempty"`
}

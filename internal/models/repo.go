package models

// RepoCoordinate identifies a remote repository and the credential used to
// read it. Created once per request and passed by value from then on.
type RepoCoordinate struct {
	Owner   string
	Name    string
	Subpath string
	Token   string
}

// Slug returns the owner/name form used for logging and in-progress tracking.
func (c RepoCoordinate) Slug() string {
	return c.Owner + "/" + c.Name
}

// FileRecord is one retrieved source file, path relative to the repository
// root. Immutable once produced by a walker.
type FileRecord struct {
	Path    string
	Content string
}

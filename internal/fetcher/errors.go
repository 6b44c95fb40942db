package fetcher

import "fmt"

// RemoteFetchError wraps a failed remote listing or read. At the repository
// root it is fatal to the whole fetch; inside a subtree the coordinator logs
// it and treats the subtree as an empty contribution.
type RemoteFetchError struct {
	Path string
	Err  error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch failed at %q: %v", e.Path, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

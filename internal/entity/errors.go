package entity

import "fmt"

// AuthRequestError means a sign-in or sign-out request was rejected by the
// store before any state changed.
type AuthRequestError struct {
	Op  string
	Err error
}

func (e *AuthRequestError) Error() string {
	return fmt.Sprintf("auth request %s failed: %v", e.Op, e.Err)
}

func (e *AuthRequestError) Unwrap() error { return e.Err }

// ProfileResolutionError means a profile fetch failed for a reason other than
// the row not existing.
type ProfileResolutionError struct {
	Err error
}

func (e *ProfileResolutionError) Error() string {
	return fmt.Sprintf("profile resolution failed: %v", e.Err)
}

func (e *ProfileResolutionError) Unwrap() error { return e.Err }

// RemoteFetchError means a collection query failed. The previous good value,
// if any, stays visible.
type RemoteFetchError struct {
	Query string
	Err   error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("fetch of query %q failed: %v", e.Query, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// SaveError means a project upsert failed. The draft is preserved.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("project save failed: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// UploadError means a blob upload failed. The draft's pdf_url is unchanged.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

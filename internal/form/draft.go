// Package form holds the mutable draft of a single project record through
// its create/edit lifecycle, including the PDF attachment sub-flow.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/store"

	"github.com/google/uuid"
)

// PDFBucket is the blob bucket holding project attachments.
const PDFBucket = "project-pdfs"

type State string

const (
	StateNew        State = "new"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateClosed     State = "closed"
)

// Invalidator marks a cached query dirty after a successful save.
type Invalidator interface {
	Invalidate(name string)
}

// Draft is the in-flight copy of a project being created or edited. The
// attachment upload runs orthogonally to the main state.
type Draft struct {
	data     store.Data
	blobs    store.BlobStorage
	cache    Invalidator
	identity entity.Identity

	mu        sync.Mutex
	state     State
	uploading bool
	project   entity.Project
}

// NewDraft starts a blank draft owned by identity. The record id is assigned
// up front so submit is an upsert-by-id in both create and edit flows.
func NewDraft(data store.Data, blobs store.BlobStorage, cache Invalidator, identity entity.Identity) *Draft {
	return &Draft{
		data:     data,
		blobs:    blobs,
		cache:    cache,
		identity: identity,
		state:    StateNew,
		project: entity.Project{
			Id:          uuid.New(),
			UserId:      identity.Id,
			Status:      entity.StatusOpen,
			RequestDate: time.Now(),
		},
	}
}

// EditDraft starts a draft pre-filled from an existing project.
func EditDraft(data store.Data, blobs store.BlobStorage, cache Invalidator, identity entity.Identity, project entity.Project) *Draft {
	return &Draft{
		data:     data,
		blobs:    blobs,
		cache:    cache,
		identity: identity,
		state:    StateEditing,
		project:  project,
	}
}

func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Draft) Uploading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploading
}

// Project returns a copy of the current draft values.
func (d *Draft) Project() entity.Project {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.project
}

// Set applies an edit to the draft values. No-op once the draft is closed or
// a submit is in flight.
func (d *Draft) Set(mutate func(project *entity.Project)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateClosed || d.state == StateSubmitting {
		return
	}
	mutate(&d.project)
}

// Validate checks the required fields before a submit is attempted.
func (d *Draft) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var missing []string
	if strings.TrimSpace(d.project.ClientName) == "" {
		missing = append(missing, "client_name")
	}
	if strings.TrimSpace(d.project.AgentName) == "" {
		missing = append(missing, "agent_name")
	}
	if strings.TrimSpace(d.project.ProjectName) == "" {
		missing = append(missing, "project_name")
	}
	if d.project.RequestDate.IsZero() {
		missing = append(missing, "request_date")
	}
	if strings.TrimSpace(d.project.Status) == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required fields missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Submit validates the draft and upserts it with user_id forced to the
// owning identity. On failure the prior state and the draft values are
// preserved; on success the draft closes and the projects query is marked
// dirty.
func (d *Draft) Submit(ctx context.Context) error {
	if err := d.Validate(); err != nil {
		return &entity.SaveError{Err: err}
	}

	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		return &entity.SaveError{Err: errors.New("draft already closed")}
	}
	if d.state == StateSubmitting {
		d.mu.Unlock()
		return &entity.SaveError{Err: errors.New("submit already in flight")}
	}
	prior := d.state
	d.state = StateSubmitting
	d.project.UserId = d.identity.Id
	if d.project.CreatedAt.IsZero() {
		d.project.CreatedAt = time.Now()
	}
	snapshot := d.project
	d.mu.Unlock()

	if err := d.data.UpsertProject(ctx, &snapshot); err != nil {
		d.mu.Lock()
		d.state = prior
		d.mu.Unlock()
		return &entity.SaveError{Err: err}
	}

	d.mu.Lock()
	d.state = StateClosed
	d.mu.Unlock()
	d.cache.Invalidate("projects")
	return nil
}

// AttachPDF uploads an attachment under a path namespaced by identity id and
// a timestamp to avoid collisions, then points the draft's pdf_url at the
// public URL. On failure pdf_url is left unchanged. The draft is not
// submitted automatically; the user still saves explicitly.
func (d *Draft) AttachPDF(ctx context.Context, filename string, data io.Reader, size int64) error {
	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		return &entity.UploadError{Path: filename, Err: errors.New("draft already closed")}
	}
	d.uploading = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.uploading = false
		d.mu.Unlock()
	}()

	path := fmt.Sprintf("%s/%d-%s", d.identity.Id, time.Now().Unix(), sanitizeFilename(filename))
	if err := d.blobs.UploadBlob(ctx, PDFBucket, path, data, size); err != nil {
		return &entity.UploadError{Path: path, Err: err}
	}

	url := d.blobs.PublicURL(PDFBucket, path)
	d.mu.Lock()
	d.project.PdfURL = &url
	d.mu.Unlock()
	return nil
}

// sanitizeFilename strips path separators so uploads cannot nest or escape
// the identity's namespace.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.TrimSpace(name)
	if name == "" {
		return "attachment.pdf"
	}
	return name
}

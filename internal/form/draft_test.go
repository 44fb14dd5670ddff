package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"commercial-hub-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeData struct {
	upserted []*entity.Project
	err      error
}

func (f *fakeData) SelectProjects(ctx context.Context) ([]*entity.Project, error) { return nil, nil }
func (f *fakeData) SelectProfiles(ctx context.Context) ([]*entity.Profile, error) { return nil, nil }
func (f *fakeData) FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return nil, nil
}
func (f *fakeData) UpsertProfile(ctx context.Context, profile *entity.Profile) error { return nil }
func (f *fakeData) UpsertProject(ctx context.Context, project *entity.Project) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, project)
	return nil
}

type fakeBlobs struct {
	paths []string
	err   error
}

func (f *fakeBlobs) UploadBlob(ctx context.Context, bucket, path string, data io.Reader, size int64) error {
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, bucket+"/"+path)
	return nil
}

func (f *fakeBlobs) PublicURL(bucket, path string) string {
	return fmt.Sprintf("http://localhost:3000/uploads/%s/%s", bucket, path)
}

type fakeInvalidator struct {
	names []string
}

func (f *fakeInvalidator) Invalidate(name string) {
	f.names = append(f.names, name)
}

func testIdentity() entity.Identity {
	return entity.Identity{Id: uuid.New(), Email: "vera@example.com"}
}

func fillRequired(d *Draft) {
	d.Set(func(p *entity.Project) {
		p.ClientName = "Acme"
		p.AgentName = "Alice"
		p.ProjectName = "Tower"
		p.Status = entity.StatusNegotiation
		p.Value = 2500
	})
}

func TestSubmitForcesOwnerAndInvalidatesProjects(t *testing.T) {
	data := &fakeData{}
	cache := &fakeInvalidator{}
	identity := testIdentity()
	draft := NewDraft(data, &fakeBlobs{}, cache, identity)
	fillRequired(draft)

	// A stray edit on user_id must not survive submit.
	draft.Set(func(p *entity.Project) { p.UserId = uuid.New() })

	assert.NoError(t, draft.Submit(context.Background()))
	assert.Equal(t, StateClosed, draft.State())
	assert.Len(t, data.upserted, 1)
	assert.Equal(t, identity.Id, data.upserted[0].UserId)
	assert.Equal(t, []string{"projects"}, cache.names)
}

func TestSubmitFailureRestoresStateAndKeepsDraft(t *testing.T) {
	data := &fakeData{err: errors.New("write rejected")}
	cache := &fakeInvalidator{}
	draft := NewDraft(data, &fakeBlobs{}, cache, testIdentity())
	fillRequired(draft)

	err := draft.Submit(context.Background())
	var saveErr *entity.SaveError
	assert.ErrorAs(t, err, &saveErr)
	assert.Equal(t, StateNew, draft.State())
	assert.Equal(t, "Acme", draft.Project().ClientName, "draft input is preserved on failure")
	assert.Empty(t, cache.names)

	// The same draft submits cleanly once the store recovers.
	data.err = nil
	assert.NoError(t, draft.Submit(context.Background()))
	assert.Equal(t, StateClosed, draft.State())
}

func TestSubmitRejectsMissingRequiredFields(t *testing.T) {
	data := &fakeData{}
	draft := NewDraft(data, &fakeBlobs{}, &fakeInvalidator{}, testIdentity())
	draft.Set(func(p *entity.Project) {
		p.ClientName = "Acme"
		p.Status = ""
	})

	err := draft.Submit(context.Background())
	var saveErr *entity.SaveError
	assert.ErrorAs(t, err, &saveErr)
	assert.Contains(t, err.Error(), "agent_name")
	assert.Contains(t, err.Error(), "status")
	assert.Empty(t, data.upserted)
}

func TestEditDraftKeepsRecordID(t *testing.T) {
	data := &fakeData{}
	identity := testIdentity()
	existing := entity.Project{
		Id:          uuid.New(),
		CreatedAt:   time.Now().AddDate(0, -1, 0),
		UserId:      identity.Id,
		Status:      entity.StatusOpen,
		RequestDate: time.Now(),
		ClientName:  "Globex",
		AgentName:   "Bob",
		ProjectName: "Bridge",
		Value:       800,
	}
	draft := EditDraft(data, &fakeBlobs{}, &fakeInvalidator{}, identity, existing)
	assert.Equal(t, StateEditing, draft.State())

	draft.Set(func(p *entity.Project) { p.Status = entity.StatusWon })
	assert.NoError(t, draft.Submit(context.Background()))

	assert.Len(t, data.upserted, 1)
	assert.Equal(t, existing.Id, data.upserted[0].Id)
	assert.Equal(t, entity.StatusWon, data.upserted[0].Status)
}

func TestAttachPDFNamespacesPathAndSetsURL(t *testing.T) {
	blobs := &fakeBlobs{}
	identity := testIdentity()
	draft := NewDraft(&fakeData{}, blobs, &fakeInvalidator{}, identity)

	err := draft.AttachPDF(context.Background(), "quote.pdf", strings.NewReader("%PDF"), 4)
	assert.NoError(t, err)
	assert.False(t, draft.Uploading())

	assert.Len(t, blobs.paths, 1)
	assert.True(t, strings.HasPrefix(blobs.paths[0], PDFBucket+"/"+identity.Id.String()+"/"))
	assert.True(t, strings.HasSuffix(blobs.paths[0], "-quote.pdf"))

	url := draft.Project().PdfURL
	assert.NotNil(t, url)
	assert.Contains(t, *url, "/uploads/"+PDFBucket+"/")

	// Upload does not submit; the draft still needs an explicit save.
	assert.Equal(t, StateNew, draft.State())
}

func TestAttachPDFFailureLeavesURLUnchanged(t *testing.T) {
	blobs := &fakeBlobs{err: errors.New("bucket unavailable")}
	draft := NewDraft(&fakeData{}, blobs, &fakeInvalidator{}, testIdentity())

	err := draft.AttachPDF(context.Background(), "quote.pdf", strings.NewReader("%PDF"), 4)
	var uploadErr *entity.UploadError
	assert.ErrorAs(t, err, &uploadErr)
	assert.Nil(t, draft.Project().PdfURL)
}

func TestAttachPDFSanitizesFilename(t *testing.T) {
	blobs := &fakeBlobs{}
	draft := NewDraft(&fakeData{}, blobs, &fakeInvalidator{}, testIdentity())

	err := draft.AttachPDF(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1)
	assert.NoError(t, err)
	assert.NotContains(t, blobs.paths[0], "../")
}

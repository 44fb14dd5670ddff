package service

import (
	"context"
	"io"
	"time"

	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/form"
	"commercial-hub-be/internal/mapper"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"
	"commercial-hub-be/pkg/dashboard"
	"commercial-hub-be/pkg/querycache"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const projectsQuery = "projects"

type IProjectService interface {
	List(ctx context.Context, search, agent string) (*dto.ProjectListResponse, error)
	Upsert(ctx context.Context, identity entity.Identity, req *dto.UpsertProjectRequest) (*dto.ProjectResponse, error)
	AttachPDF(ctx context.Context, identity entity.Identity, projectID uuid.UUID, filename string, data io.Reader, size int64) (*dto.AttachPdfResponse, error)
}

type projectService struct {
	client store.Client
	cache  *querycache.Cache
	logger logger.ILogger
}

func NewProjectService(client store.Client, cache *querycache.Cache, log logger.ILogger) (IProjectService, error) {
	s := &projectService{
		client: client,
		cache:  cache,
		logger: log,
	}
	err := cache.Register(projectsQuery, store.CollectionProjects, func(ctx context.Context) (interface{}, error) {
		return client.SelectProjects(ctx)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns the grid rows narrowed by search text and agent filter. The
// agent dropdown options come from the unfiltered set.
func (s *projectService) List(ctx context.Context, search, agent string) (*dto.ProjectListResponse, error) {
	projects, err := querycache.GetAs[[]*entity.Project](ctx, s.cache, projectsQuery)
	if err != nil {
		return nil, err
	}

	filtered := dashboard.FilterProjects(projects, search, agent)
	rows := make([]dto.ProjectResponse, 0, len(filtered))
	for _, project := range filtered {
		rows = append(rows, mapper.ProjectToResponse(project))
	}

	return &dto.ProjectListResponse{
		Projects: rows,
		Agents:   dashboard.DistinctAgents(projects),
	}, nil
}

// Upsert creates or updates a project through the draft flow. An id in the
// request means edit; edits preserve created_at and the attachment.
func (s *projectService) Upsert(ctx context.Context, identity entity.Identity, req *dto.UpsertProjectRequest) (*dto.ProjectResponse, error) {
	requestDate, err := time.Parse("2006-01-02", req.RequestDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "request_date must be YYYY-MM-DD")
	}

	var draft *form.Draft
	if req.Id != nil {
		existing, err := s.findProject(ctx, *req.Id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "project not found")
		}
		draft = form.EditDraft(s.client, s.client, s.cache, identity, *existing)
	} else {
		draft = form.NewDraft(s.client, s.client, s.cache, identity)
	}

	draft.Set(func(p *entity.Project) {
		p.Status = req.Status
		p.RequestDate = requestDate
		p.ClientName = req.ClientName
		p.AgentName = req.AgentName
		p.ProjectName = req.ProjectName
		p.Value = req.Value
		if req.Notes != "" {
			notes := req.Notes
			p.Notes = &notes
		} else {
			p.Notes = nil
		}
	})

	if err := draft.Submit(ctx); err != nil {
		return nil, err
	}

	saved := draft.Project()
	res := mapper.ProjectToResponse(&saved)
	return &res, nil
}

// AttachPDF uploads an attachment for an existing project and persists its
// public URL. The rest of the record is left untouched.
func (s *projectService) AttachPDF(ctx context.Context, identity entity.Identity, projectID uuid.UUID, filename string, data io.Reader, size int64) (*dto.AttachPdfResponse, error) {
	existing, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "project not found")
	}

	draft := form.EditDraft(s.client, s.client, s.cache, identity, *existing)
	if err := draft.AttachPDF(ctx, filename, data, size); err != nil {
		return nil, err
	}

	// Persist just the new URL; ownership stays with the original creator.
	updated := *existing
	updated.PdfURL = draft.Project().PdfURL
	if err := s.client.UpsertProject(ctx, &updated); err != nil {
		return nil, &entity.SaveError{Err: err}
	}
	s.cache.Invalidate(projectsQuery)

	s.logger.Info("ProjectService", "PDF attached", map[string]interface{}{
		"project_id": projectID.String(),
		"user_id":    identity.Id.String(),
	})

	return &dto.AttachPdfResponse{PdfURL: *updated.PdfURL}, nil
}

func (s *projectService) findProject(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	projects, err := querycache.GetAs[[]*entity.Project](ctx, s.cache, projectsQuery)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		if project.Id == id {
			copied := *project
			return &copied, nil
		}
	}
	return nil, nil
}

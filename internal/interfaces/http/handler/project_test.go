package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	projectapp "github.com/bizledger/backend/internal/application/project"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjectService struct {
	mock.Mock
}

func projectResult(args mock.Arguments) (*projectapp.ProjectResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectapp.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, actor identity.Actor, req projectapp.ProjectRequest) (*projectapp.ProjectResponse, error) {
	return projectResult(m.Called(ctx, actor, req))
}

func (m *MockProjectService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.ProjectRequest) (*projectapp.ProjectResponse, error) {
	return projectResult(m.Called(ctx, actor, id, req))
}

func (m *MockProjectService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockProjectService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*projectapp.ProjectResponse, error) {
	return projectResult(m.Called(ctx, actor, id))
}

func (m *MockProjectService) List(ctx context.Context, actor identity.Actor, filter projectapp.ProjectListFilter) ([]projectapp.ProjectResponse, int64, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]projectapp.ProjectResponse), args.Get(1).(int64), args.Error(2)
}

type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Assign(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.AssignMemberRequest) (*projectapp.MemberResponse, error) {
	args := m.Called(ctx, actor, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectapp.MemberResponse), args.Error(1)
}

func (m *MockTeamService) Remove(ctx context.Context, actor identity.Actor, projectID, employeeID uuid.UUID) error {
	return m.Called(ctx, actor, projectID, employeeID).Error(0)
}

func (m *MockTeamService) List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]projectapp.MemberResponse, error) {
	args := m.Called(ctx, actor, projectID)
	return args.Get(0).([]projectapp.MemberResponse), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Link(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.LinkDocumentRequest) (*projectapp.DocumentResponse, error) {
	args := m.Called(ctx, actor, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectapp.DocumentResponse), args.Error(1)
}

func (m *MockDocumentService) RequestUpload(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.UploadDocumentRequest) (*projectapp.UploadDocumentResponse, error) {
	args := m.Called(ctx, actor, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectapp.UploadDocumentResponse), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]projectapp.DocumentResponse, error) {
	args := m.Called(ctx, actor, projectID)
	return args.Get(0).([]projectapp.DocumentResponse), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, actor identity.Actor, id uuid.UUID) (*projectapp.DocumentResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectapp.DocumentResponse), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func TestProjectHandler_CreateAndList(t *testing.T) {
	actor := adminActor()
	projects := new(MockProjectService)
	h := NewProjectHandler(projects, new(MockTeamService), nil)
	r := newTestRouter(&actor)
	r.POST("/projects", h.Create)
	r.GET("/projects", h.List)

	tagID := uuid.New()
	projects.On("Create", mock.Anything, actor, mock.MatchedBy(func(req projectapp.ProjectRequest) bool {
		return req.Name == "Website" && req.Status == "ACTIVE"
	})).Return(&projectapp.ProjectResponse{ID: uuid.New(), Name: "Website", TagID: &tagID}, nil)
	projects.On("List", mock.Anything, actor, projectapp.ProjectListFilter{Status: "ACTIVE"}).
		Return([]projectapp.ProjectResponse{{Name: "Website"}}, int64(1), nil)

	w := doJSON(r, http.MethodPost, "/projects", map[string]string{"name": "Website", "status": "ACTIVE"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, tagID.String(), decodeResponse(t, w).Data.(map[string]any)["tag_id"])

	w = doJSON(r, http.MethodGet, "/projects?status=ACTIVE", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/projects?status=ARCHIVED", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	projects.AssertExpectations(t)
}

func TestProjectHandler_Team(t *testing.T) {
	actor := adminActor()
	teams := new(MockTeamService)
	h := NewProjectHandler(new(MockProjectService), teams, nil)
	r := newTestRouter(&actor)
	r.POST("/projects/:id/team", h.AssignMember)
	r.DELETE("/projects/:id/team/:employeeId", h.RemoveMember)

	projectID, employeeID := uuid.New(), uuid.New()
	teams.On("Assign", mock.Anything, actor, projectID, projectapp.AssignMemberRequest{EmployeeID: employeeID, Role: "LEAD"}).
		Return(&projectapp.MemberResponse{EmployeeID: employeeID, Role: "LEAD", JoinedAt: time.Now()}, nil)
	teams.On("Remove", mock.Anything, actor, projectID, employeeID).Return(nil)

	w := doJSON(r, http.MethodPost, "/projects/"+projectID.String()+"/team", map[string]any{"employee_id": employeeID, "role": "LEAD"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/projects/"+projectID.String()+"/team/"+employeeID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	teams.AssertExpectations(t)
}

func TestDocumentHandler_Upload(t *testing.T) {
	actor := adminActor()
	docs := new(MockDocumentService)
	r := newTestRouter(&actor)
	r.POST("/projects/:id/documents/upload", NewDocumentHandler(docs).Upload)

	projectID := uuid.New()
	req := projectapp.UploadDocumentRequest{Name: "Contract", Type: "CONTRACT", FileName: "contract.pdf", ContentType: "application/pdf"}
	docs.On("RequestUpload", mock.Anything, actor, projectID, req).Return(&projectapp.UploadDocumentResponse{
		Document:  projectapp.DocumentResponse{ProjectID: projectID, Name: "Contract", Stored: true},
		UploadURL: "https://bucket.example.com/put",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil)

	w := doJSON(r, http.MethodPost, "/projects/"+projectID.String()+"/documents/upload", req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://bucket.example.com/put", decodeResponse(t, w).Data.(map[string]any)["upload_url"])

	w = doJSON(r, http.MethodPost, "/projects/"+projectID.String()+"/documents/upload",
		map[string]string{"name": "X", "type": "SPREADSHEET", "file_name": "x.xls", "content_type": "application/vnd.ms-excel"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

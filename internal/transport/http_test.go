package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	projects  map[string]*project.Project
	updateErr error
	lastOwner string
	lastEdit  project.UpdateRequest
}

func newStubService() *stubService {
	proj := &project.Project{ID: "p1", OwnerID: "owner1", Title: "Jam A", Genre: "techno", Status: project.StatusIdle, NumberOfTracks: 8}
	proj.AddSlot(project.Slot{ID: "t1", ProjectID: "p1", Kind: project.KindTrack, Index: 1})
	return &stubService{projects: map[string]*project.Project{"p1": proj}}
}

func (s *stubService) lookup(ownerID, id string) (*project.Project, error) {
	s.lastOwner = ownerID
	proj, ok := s.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	if proj.OwnerID != ownerID {
		return nil, project.ErrForbidden
	}
	return proj, nil
}

func (s *stubService) List(_ context.Context, ownerID string) ([]project.ProjectSummary, error) {
	s.lastOwner = ownerID
	var out []project.ProjectSummary
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			out = append(out, p.Summary())
		}
	}
	return out, nil
}

func (s *stubService) Get(_ context.Context, ownerID, id string) (*project.Project, error) {
	return s.lookup(ownerID, id)
}

func (s *stubService) Create(_ context.Context, ownerID string, req project.CreateRequest) (*project.Project, error) {
	if err := project.ValidateCreateInput(req); err != nil {
		return nil, err
	}
	proj := &project.Project{ID: "new", OwnerID: ownerID, Title: req.Title, Genre: req.Genre, Status: project.StatusIdle}
	s.projects[proj.ID] = proj
	return proj, nil
}

func (s *stubService) Update(_ context.Context, ownerID, id string, req project.UpdateRequest) (*project.Project, error) {
	proj, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	s.lastEdit = req
	if _, err := project.ValidateUpdateInput(proj, req); err != nil {
		return nil, err
	}
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	proj.Title = req.Title
	return proj, nil
}

func (s *stubService) Delete(_ context.Context, ownerID, id string) error {
	if _, err := s.lookup(ownerID, id); err != nil {
		return err
	}
	delete(s.projects, id)
	return nil
}

func (s *stubService) RequestBackup(_ context.Context, ownerID, id string) (string, error) {
	proj, err := s.lookup(ownerID, id)
	if err != nil {
		return "", err
	}
	proj.Status = project.StatusProcessing
	return project.BackupStartedMessage, nil
}

func newTestServer(t *testing.T, svc ProjectService) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(Options{
		Projects: svc,
		Auth:     HeaderOwnerMiddleware(""),
	}))
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, url, owner string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set(UserIDHeader, owner)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, newStubService())

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_ListAndGet(t *testing.T) {
	server := newTestServer(t, newStubService())

	resp := doRequest(t, http.MethodGet, server.URL+"/api/projects", "owner1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Data []projectResource `json:"data"`
	}](t, resp)
	require.Len(t, list.Data, 1)
	require.Empty(t, list.Data[0].Tracks)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/projects/p1", "owner1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[struct {
		Data projectResource `json:"data"`
	}](t, resp)
	require.Equal(t, "Jam A", got.Data.Title)
	require.Len(t, got.Data.Tracks, 1)
	require.Equal(t, "t1", got.Data.Tracks[0].ID)
}

func TestHTTPServer_StatusMapping(t *testing.T) {
	server := newTestServer(t, newStubService())

	resp := doRequest(t, http.MethodGet, server.URL+"/api/projects/p1", "intruder", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/projects/missing", "owner1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_Create(t *testing.T) {
	server := newTestServer(t, newStubService())

	resp := doRequest(t, http.MethodPost, server.URL+"/api/projects", "owner1", map[string]string{"title": "Jam B"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[struct {
		Data projectResource `json:"data"`
	}](t, resp)
	require.Equal(t, "Jam B", created.Data.Title)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/projects", "owner1", map[string]string{"title": ""})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[messageResponse](t, resp)
	require.Contains(t, body.Errors, "title")
}

func TestHTTPServer_UpdateValidation(t *testing.T) {
	svc := newStubService()
	server := newTestServer(t, svc)

	resp := doRequest(t, http.MethodPut, server.URL+"/api/projects/p1", "owner1", map[string]any{
		"title":  "Jam A",
		"tracks": []map[string]string{{"id": "not-mine", "label": "BD"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[messageResponse](t, resp)
	require.Contains(t, body.Errors, "tracks.0.id")

	resp = doRequest(t, http.MethodPatch, server.URL+"/api/projects/p1", "owner1", map[string]any{
		"title":  "Jam C",
		"tracks": []map[string]string{{"id": "t1", "label": "BD"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "BD", svc.lastEdit.Tracks[0].Label)
}

func TestHTTPServer_UpdateFailureHidesCause(t *testing.T) {
	svc := newStubService()
	svc.updateErr = errors.Join(project.ErrUpdateFailed, errors.New("sqlite: disk I/O error"))
	server := newTestServer(t, svc)

	resp := doRequest(t, http.MethodPut, server.URL+"/api/projects/p1", "owner1", map[string]any{"title": "Jam A"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[messageResponse](t, resp)
	require.NotContains(t, body.Message, "disk")
}

func TestHTTPServer_InvalidBody(t *testing.T) {
	server := newTestServer(t, newStubService())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/projects", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set(UserIDHeader, "owner1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_ProcessAndDelete(t *testing.T) {
	svc := newStubService()
	server := newTestServer(t, svc)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/projects/p1/process", "owner1", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decode[messageResponse](t, resp)
	require.Equal(t, "Project processing has started.", body.Message)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/projects/p1", "intruder", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/projects/p1", "owner1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NotContains(t, svc.projects, "p1")
}

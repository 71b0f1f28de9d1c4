package testserver_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rpggio/slotboard/internal/testserver"
	"github.com/stretchr/testify/require"
)

type slotBody struct {
	ID    string `json:"id"`
	Index int    `json:"slot_index"`
	Label string `json:"label"`
}

type projectBody struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Genre  string     `json:"genre"`
	Status string     `json:"status"`
	Tracks []slotBody `json:"tracks"`
	Parts  []slotBody `json:"parts"`
	Scenes []slotBody `json:"scenes"`
}

func decodeProject(t *testing.T, body []byte) projectBody {
	t.Helper()
	var env struct {
		Data projectBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env.Data
}

func labels(slots []slotBody) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Label)
	}
	return out
}

func TestScenario_CreateLabelAndBackUp(t *testing.T) {
	ts := testserver.New(t, testserver.Options{BackupDelay: 10 * time.Millisecond})

	status, body := ts.Do(t, http.MethodPost, "/api/projects", "alice", map[string]string{"title": "Jam A", "genre": "techno"})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decodeProject(t, body)
	require.Equal(t, "idle", created.Status)
	require.Len(t, created.Tracks, 8)
	require.Len(t, created.Parts, 4)
	require.Len(t, created.Scenes, 16)
	for _, slots := range [][]slotBody{created.Tracks, created.Parts, created.Scenes} {
		for i, s := range slots {
			require.Equal(t, i+1, s.Index)
			require.Empty(t, s.Label)
		}
	}

	status, body = ts.Do(t, http.MethodPut, "/api/projects/"+created.ID, "alice", map[string]any{
		"title":  "Jam A",
		"genre":  "techno",
		"tracks": []map[string]string{{"id": created.Tracks[0].ID, "label": "BD"}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decodeProject(t, body)
	require.Equal(t, "BD", updated.Tracks[0].Label)
	require.Equal(t, []string{"BD", "", "", "", "", "", "", ""}, labels(updated.Tracks))

	status, body = ts.Do(t, http.MethodPost, "/api/projects/"+created.ID+"/process", "alice", nil)
	require.Equal(t, http.StatusAccepted, status, string(body))
	require.JSONEq(t, `{"message":"Project processing has started."}`, string(body))

	require.Eventually(t, func() bool {
		_, body := ts.Do(t, http.MethodGet, "/api/projects/"+created.ID, "alice", nil)
		return decodeProject(t, body).Status == "processed"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScenario_ProcessingVisibleBeforeCompletion(t *testing.T) {
	ts := testserver.New(t, testserver.Options{NoWorker: true})

	_, body := ts.Do(t, http.MethodPost, "/api/projects", "alice", map[string]string{"title": "Jam A"})
	created := decodeProject(t, body)

	status, _ := ts.Do(t, http.MethodPost, "/api/projects/"+created.ID+"/process", "alice", nil)
	require.Equal(t, http.StatusAccepted, status)

	_, body = ts.Do(t, http.MethodGet, "/api/projects/"+created.ID, "alice", nil)
	require.Equal(t, "processing", decodeProject(t, body).Status)
	require.Equal(t, 1, ts.Queue.Len())
}

func TestScenario_ForeignSlotLeavesBothProjectsUnchanged(t *testing.T) {
	ts := testserver.New(t, testserver.Options{NoWorker: true})

	_, body := ts.Do(t, http.MethodPost, "/api/projects", "alice", map[string]string{"title": "A"})
	a := decodeProject(t, body)
	_, body = ts.Do(t, http.MethodPost, "/api/projects", "alice", map[string]string{"title": "B"})
	b := decodeProject(t, body)

	status, body := ts.Do(t, http.MethodPut, "/api/projects/"+a.ID, "alice", map[string]any{
		"title": "A renamed",
		"tracks": []map[string]string{
			{"id": a.Tracks[0].ID, "label": "BD"},
			{"id": b.Tracks[0].ID, "label": "SD"},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, status, string(body))

	_, body = ts.Do(t, http.MethodGet, "/api/projects/"+a.ID, "alice", nil)
	gotA := decodeProject(t, body)
	require.Equal(t, "A", gotA.Title)
	require.Empty(t, gotA.Tracks[0].Label)

	_, body = ts.Do(t, http.MethodGet, "/api/projects/"+b.ID, "alice", nil)
	require.Empty(t, decodeProject(t, body).Tracks[0].Label)
}

func TestScenario_NonOwnerIsForbidden(t *testing.T) {
	ts := testserver.New(t, testserver.Options{NoWorker: true})

	_, body := ts.Do(t, http.MethodPost, "/api/projects", "alice", map[string]string{"title": "Mine"})
	proj := decodeProject(t, body)

	status, body := ts.Do(t, http.MethodGet, "/api/projects/"+proj.ID, "mallory", nil)
	require.Equal(t, http.StatusForbidden, status)
	require.NotContains(t, string(body), "Mine")

	status, _ = ts.Do(t, http.MethodPut, "/api/projects/"+proj.ID, "mallory", map[string]any{"title": "Taken"})
	require.Equal(t, http.StatusForbidden, status)

	status, _ = ts.Do(t, http.MethodPost, "/api/projects/"+proj.ID+"/process", "mallory", nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Zero(t, ts.Queue.Len())

	status, _ = ts.Do(t, http.MethodDelete, "/api/projects/"+proj.ID, "mallory", nil)
	require.Equal(t, http.StatusForbidden, status)

	status, body = ts.Do(t, http.MethodGet, "/api/projects/"+proj.ID, "alice", nil)
	require.Equal(t, http.StatusOK, status)
	got := decodeProject(t, body)
	require.Equal(t, "Mine", got.Title)
	require.Equal(t, "idle", got.Status)

	status, body = ts.Do(t, http.MethodGet, "/api/projects", "mallory", nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"data":[]}`, string(body))
}

func TestScenario_SamePatchTwiceEqualsOnce(t *testing.T) {
	ts := testserver.New(t, testserver.Options{NoWorker: true})

	_, body := ts.Do(t, http.MethodPost, "/api/projects", "alice", map[string]string{"title": "Jam"})
	proj := decodeProject(t, body)

	patch := map[string]any{
		"title":  "Jam",
		"parts":  []map[string]string{{"id": proj.Parts[1].ID, "label": "intro"}},
		"scenes": []map[string]string{{"id": proj.Scenes[0].ID, "label": "LP"}},
	}
	status, first := ts.Do(t, http.MethodPatch, "/api/projects/"+proj.ID, "alice", patch)
	require.Equal(t, http.StatusOK, status)
	status, second := ts.Do(t, http.MethodPatch, "/api/projects/"+proj.ID, "alice", patch)
	require.Equal(t, http.StatusOK, status)

	a, b := decodeProject(t, first), decodeProject(t, second)
	require.Equal(t, labels(a.Parts), labels(b.Parts))
	require.Equal(t, labels(a.Scenes), labels(b.Scenes))
	require.Equal(t, "intro", b.Parts[1].Label)
}

func TestScenario_RequiresBearerToken(t *testing.T) {
	ts := testserver.New(t, testserver.Options{NoWorker: true})

	status, _ := ts.Do(t, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.Do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
}

package webui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jthornber/smq/internal/harness"
)

func writeFixture(t *testing.T, dir, run, name, content string) {
	t.Helper()
	runDir := filepath.Join(dir, run)
	require.NoError(t, os.MkdirAll(runDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(runDir, name), []byte(content), 0o644))
}

func TestHandleListRuns(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "run1", harness.OutputFiles[0], "1 2\n3 4\n")

	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	s.handleListRuns(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var runs []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Equal(t, []string{"run1"}, runs)
}

func TestHandleListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "run1", harness.OutputFiles[0], "1 2\n")
	writeFixture(t, dir, "run1", harness.OutputFiles[1], "3 4\n")

	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/run1/files", nil)
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var files []fileInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	assert.Len(t, files, 2)
}

func TestHandleFileRaw(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "run1", harness.OutputFiles[0], "0.1 0.2\n0.3 0.4\n")

	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/run1/files/"+harness.OutputFiles[0], nil)
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.1 0.2\n0.3 0.4\n", w.Body.String())
}

func TestHandleFileJSON(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "run1", harness.OutputFiles[0], "0.1 0.2\n0.3 0.4\n")

	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/run1/files/"+harness.OutputFiles[0]+"/json", nil)
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var rows [][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Equal(t, [][]string{{"0.1", "0.2"}, {"0.3", "0.4"}}, rows)
}

func TestHandleRunRejectsUnknownFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "run1", harness.OutputFiles[0], "1 2\n")

	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/run1/files/not_a_real_file.dat", nil)
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRunRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/../etc/files", nil)
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleIndexRenders(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "run1", harness.OutputFiles[0], "1 2\n")

	s := NewServer(dir, ":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.handleIndex(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "run1")
}

func TestListRunsOnMissingDir(t *testing.T) {
	s := NewServer(filepath.Join(t.TempDir(), "missing"), ":0", nil)
	runs, err := s.listRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)
}

// Package webui serves sweep output over HTTP so a browser or script can
// inspect the .dat tables a harness run produced without shelling in.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jthornber/smq/internal/harness"
	"github.com/jthornber/smq/pkg/utils"
)

// Server serves the .dat files a harness Sweep wrote under dataDir. dataDir
// is expected to hold one subdirectory per run, each containing some subset
// of harness.OutputFiles.
type Server struct {
	dataDir string
	addr    string
	logger  utils.Logger
	server  *http.Server
}

// NewServer creates a web UI server rooted at dataDir.
func NewServer(dataDir, addr string, logger utils.Logger) *Server {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Server{dataDir: dataDir, addr: addr, logger: logger}
}

// Start builds the route table and blocks serving HTTP until the server is
// shut down or ListenAndServe fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/runs", s.handleListRuns)
	mux.HandleFunc("/api/runs/", s.handleRun)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("starting web server at http://localhost%s", s.addr)
	s.logger.Info("serving sweep output from: %s", s.dataDir)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleIndex renders a small page listing the runs available under
// dataDir, each linking to its file index.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	runs, err := s.listRuns()
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		s.logger.Error("listRuns: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, struct {
		DataDir string
		Runs    []string
	}{s.dataDir, runs}); err != nil {
		s.logger.Error("failed to execute index template: %v", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>smqctl sweep output</title></head>
<body>
<h1>Sweep output</h1>
<p>Data directory: {{.DataDir}}</p>
<ul>
{{range .Runs}}<li><a href="/api/runs/{{.}}/files">{{.}}</a></li>
{{else}}<li>no runs found</li>
{{end}}
</ul>
</body>
</html>
`))

// handleListRuns returns the run directories found under dataDir as JSON.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.listRuns()
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		s.logger.Error("listRuns: %v", err)
		return
	}
	writeJSON(w, runs)
}

// handleRun dispatches /api/runs/{run}/files and
// /api/runs/{run}/files/{name}[/json] requests.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	run := parts[0]
	if strings.Contains(run, "..") || strings.ContainsAny(run, `/\`) {
		http.Error(w, "invalid run name", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "files":
		s.handleListFiles(w, r, run)
	case len(parts) == 3 && parts[1] == "files":
		s.handleFileRaw(w, r, run, parts[2])
	case len(parts) == 4 && parts[1] == "files" && parts[3] == "json":
		s.handleFileJSON(w, r, run, parts[2])
	default:
		http.NotFound(w, r)
	}
}

// fileInfo describes one .dat file available within a run.
type fileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// handleListFiles reports which of harness.OutputFiles are present in run,
// in the order the sweep produces them.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request, run string) {
	dir := filepath.Join(s.dataDir, run)
	var files []fileInfo
	for _, name := range harness.OutputFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		files = append(files, fileInfo{Name: name, Size: info.Size(), ModTime: info.ModTime()})
	}
	writeJSON(w, files)
}

// handleFileRaw serves a .dat file's raw whitespace-delimited contents.
func (s *Server) handleFileRaw(w http.ResponseWriter, r *http.Request, run, name string) {
	path, err := s.resolveFile(run, name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}

// handleFileJSON serves a .dat file as a JSON array of rows, each row an
// array of string fields, matching the space-separated layout
// pkg/writer.DatWriter produces.
func (s *Server) handleFileJSON(w http.ResponseWriter, r *http.Request, run, name string) {
	path, err := s.resolveFile(run, name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("reading %s: %v", path, err)
		return
	}

	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		if line == "" {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	writeJSON(w, rows)
}

// resolveFile validates that name is a known sweep output file and returns
// its path within run, guarding against path traversal via the URL.
func (s *Server) resolveFile(run, name string) (string, error) {
	found := false
	for _, known := range harness.OutputFiles {
		if known == name {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("unknown sweep output file: %s", name)
	}

	path := filepath.Join(s.dataDir, run, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", name)
	}
	return path, nil
}

// listRuns returns the subdirectories of dataDir that contain at least one
// recognized sweep output file, sorted by name.
func (s *Server) listRuns() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		for _, name := range harness.OutputFiles {
			if _, err := os.Stat(filepath.Join(s.dataDir, e.Name(), name)); err == nil {
				runs = append(runs, e.Name())
				break
			}
		}
	}
	sort.Strings(runs)
	return runs, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Package web serves the CRM JSON API. Read endpoints always answer 200 with
// a JSON array so front-end code never has to handle an error body.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sheetcrm/crm"
	"sheetcrm/importer"
	"sheetcrm/output"
	"sheetcrm/repository"
	"sheetcrm/sheets"
)

const (
	upstreamStatusHeader = "X-Upstream-Status"
	upstreamUnavailable  = "unavailable"
	defaultFetchTimeout  = 15 * time.Second
	maxUploadBytes       = 32 << 20
)

// Repository is what the API needs from the spreadsheet boundary.
type Repository interface {
	Properties(ctx context.Context) ([]crm.Property, bool)
	Leads(ctx context.Context) ([]crm.Lead, bool)
	Appointments(ctx context.Context) ([]crm.Appointment, bool)
	Meta(ctx context.Context) (crm.Meta, bool)
	TouchMeta(ctx context.Context) crm.Meta

	CreateProperty(ctx context.Context, input repository.PropertyInput) (crm.Property, error)
	CreateLead(ctx context.Context, input repository.LeadInput) (crm.Lead, error)
	CreateAppointment(ctx context.Context, input repository.AppointmentInput) (crm.Appointment, error)
	UpdateProperty(ctx context.Context, id string, patch repository.PropertyPatch) (crm.Property, error)
	UpdateLead(ctx context.Context, id string, patch repository.LeadPatch) (crm.Lead, error)
	UpdateAppointment(ctx context.Context, id string, patch repository.AppointmentPatch) (crm.Appointment, error)

	Client() sheets.Client
}

type Options struct {
	Logger       *logrus.Logger
	FetchTimeout time.Duration
	Now          func() time.Time
}

type Server struct {
	repo         Repository
	logger       *logrus.Logger
	fetchTimeout time.Duration
	now          func() time.Time
	mux          *http.ServeMux
}

type metaResponse struct {
	LastChangeTS string `json:"last_change_ts"`
}

type healthResponse struct {
	OK               bool     `json:"ok"`
	SpreadsheetID    string   `json:"spreadsheetId,omitempty"`
	Title            string   `json:"title,omitempty"`
	SheetTitles      []string `json:"sheetTitles,omitempty"`
	CandidateVersion int      `json:"candidateVersion"`
	Error            string   `json:"error,omitempty"`
}

func NewServer(repo Repository, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	server := &Server{
		repo:         repo,
		logger:       logger,
		fetchTimeout: timeout,
		now:          now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/properties", server.handleAPIProperties)
	mux.HandleFunc("POST /api/properties", server.handleAPIPropertyCreate)
	mux.HandleFunc("PATCH /api/properties/{id}", server.handleAPIPropertyPatch)
	mux.HandleFunc("GET /api/leads", server.handleAPILeads)
	mux.HandleFunc("POST /api/leads", server.handleAPILeadCreate)
	mux.HandleFunc("PATCH /api/leads/{id}", server.handleAPILeadPatch)
	mux.HandleFunc("GET /api/appointments", server.handleAPIAppointments)
	mux.HandleFunc("POST /api/appointments", server.handleAPIAppointmentCreate)
	mux.HandleFunc("PATCH /api/appointments/{id}", server.handleAPIAppointmentPatch)
	mux.HandleFunc("GET /api/meta", server.handleAPIMeta)
	mux.HandleFunc("POST /api/meta", server.handleAPIMetaTouch)
	mux.HandleFunc("GET /api/reports", server.handleAPIReports)
	mux.HandleFunc("GET /api/health", server.handleAPIHealth)
	mux.HandleFunc("POST /api/map/{entity}", server.handleAPIMap)
	server.mux = mux

	return withAccessLog(logger, server)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) fetchContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.fetchTimeout)
}

func (s *Server) handleAPIProperties(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	items, ok := s.repo.Properties(ctx)
	writeArray(w, items, ok)
}

func (s *Server) handleAPILeads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	items, ok := s.repo.Leads(ctx)
	writeArray(w, items, ok)
}

func (s *Server) handleAPIAppointments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	items, ok := s.repo.Appointments(ctx)
	writeArray(w, items, ok)
}

func (s *Server) handleAPIPropertyCreate(w http.ResponseWriter, r *http.Request) {
	var body repository.PropertyInput
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.fetchContext(r)
	defer cancel()

	created, err := s.repo.CreateProperty(ctx, body)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleAPILeadCreate(w http.ResponseWriter, r *http.Request) {
	var body repository.LeadInput
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.fetchContext(r)
	defer cancel()

	created, err := s.repo.CreateLead(ctx, body)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleAPIAppointmentCreate(w http.ResponseWriter, r *http.Request) {
	var body repository.AppointmentInput
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.fetchContext(r)
	defer cancel()

	created, err := s.repo.CreateAppointment(ctx, body)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleAPIPropertyPatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var body repository.PropertyPatch
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.fetchContext(r)
	defer cancel()

	updated, err := s.repo.UpdateProperty(ctx, id, body)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAPILeadPatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var body repository.LeadPatch
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.fetchContext(r)
	defer cancel()

	updated, err := s.repo.UpdateLead(ctx, id, body)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAPIAppointmentPatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var body repository.AppointmentPatch
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.fetchContext(r)
	defer cancel()

	updated, err := s.repo.UpdateAppointment(ctx, id, body)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAPIMeta(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	meta, ok := s.repo.Meta(ctx)
	if !ok {
		w.Header().Set(upstreamStatusHeader, upstreamUnavailable)
	}
	writeJSON(w, http.StatusOK, metaResponse{LastChangeTS: meta.LastChangeTS})
}

func (s *Server) handleAPIMetaTouch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	meta := s.repo.TouchMeta(ctx)
	writeJSON(w, http.StatusOK, metaResponse{LastChangeTS: meta.LastChangeTS})
}

func (s *Server) handleAPIReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	var (
		wg           sync.WaitGroup
		properties   []crm.Property
		leads        []crm.Lead
		appointments []crm.Appointment
		okProps      bool
		okLeads      bool
		okAppts      bool
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		properties, okProps = s.repo.Properties(ctx)
	}()
	go func() {
		defer wg.Done()
		leads, okLeads = s.repo.Leads(ctx)
	}()
	go func() {
		defer wg.Done()
		appointments, okAppts = s.repo.Appointments(ctx)
	}()
	wg.Wait()

	if !okProps || !okLeads || !okAppts {
		w.Header().Set(upstreamStatusHeader, upstreamUnavailable)
	}
	writeJSON(w, http.StatusOK, output.BuildReport(properties, leads, appointments, s.now()))
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.fetchContext(r)
	defer cancel()

	info, err := s.repo.Client().Info(ctx)
	if err != nil {
		writeJSON(w, http.StatusOK, healthResponse{
			OK:               false,
			CandidateVersion: importer.CandidateTableVersion,
			Error:            err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		OK:               true,
		SpreadsheetID:    info.SpreadsheetID,
		Title:            info.Title,
		SheetTitles:      info.SheetTitles,
		CandidateVersion: importer.CandidateTableVersion,
	})
}

// handleAPIMap maps an uploaded CSV or Excel file without writing anything,
// so a sheet export can be checked before it is pasted into the spreadsheet.
func (s *Server) handleAPIMap(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mode, err := importer.ParseMode(r.FormValue("layout"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	headerRows, err := parseHeaderRows(r.FormValue("header_rows"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		http.Error(w, fmt.Sprintf("create temp upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		http.Error(w, fmt.Sprintf("close upload temp file: %v", err), http.StatusInternalServerError)
		return
	}

	rows, err := importer.ReadFile(tmpPath, r.FormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if mode == importer.ModePositional {
		rows = importer.SkipRows(rows, headerRows)
	}
	mapped, err := importer.MapEntity(r.PathValue("entity"), rows, mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, mapped)
}

// parseHeaderRows reads the header_rows form value; empty means one.
func parseHeaderRows(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid header_rows: %q", value)
	}
	return n, nil
}

func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	status := mutationErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"error":  err.Error(),
		}).Error("spreadsheet write failed")
	}
	http.Error(w, err.Error(), status)
}

func mutationErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sheets.ErrReadOnly):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", fmt.Errorf("missing id")
	}
	return id, nil
}

// writeArray answers 200 with items, flagging an unreachable spreadsheet in
// a header instead of the status code.
func writeArray[T any](w http.ResponseWriter, items []T, ok bool) {
	if items == nil {
		items = []T{}
	}
	if !ok {
		w.Header().Set(upstreamStatusHeader, upstreamUnavailable)
	}
	writeJSON(w, http.StatusOK, items)
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}

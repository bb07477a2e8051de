package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sld-service/internal/audit"
	"sld-service/internal/auth"
	diagramapp "sld-service/internal/diagram/application"
	diagram "sld-service/internal/diagram/domain"
	"sld-service/internal/diagram/interfaces"
	"sld-service/internal/observability/metrics"
)

const (
	boardsPath = "/api/v1/boards"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler serves the diagram preview and board APIs.
type Handler struct {
	service     *diagramapp.Service
	auditLogger audit.Logger
	logger      *log.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *diagramapp.Service, auditLogger audit.Logger, logger *log.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("diagram handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger, logger: logger}, nil
}

// ServeHTTP routes /api/v1/diagrams and /api/v1/boards.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/diagrams/single-line" && r.Method == http.MethodPost:
		h.handleSingleLine(w, r)
		return
	case path == "/api/v1/diagrams/consumer-unit" && r.Method == http.MethodPost:
		h.handleConsumerUnit(w, r)
		return
	case path == boardsPath && r.Method == http.MethodGet:
		h.handleListBoards(w, r)
		return
	case path == boardsPath && r.Method == http.MethodPost:
		h.handleSaveBoard(w, r)
		return
	case strings.HasPrefix(path, boardsPath+"/"):
		h.handleBoardByID(w, r, strings.TrimPrefix(path, boardsPath+"/"))
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleSingleLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Circuit *diagram.CircuitData `json:"circuit"`
		Author  string               `json:"author"`
		Date    string               `json:"date"`
		Title   string               `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Circuit == nil {
		http.Error(w, "circuit required", http.StatusBadRequest)
		return
	}
	doc, err := h.service.PreviewSingleLine(r.Context(), *req.Circuit, diagram.DocumentOptions{
		Author: req.Author,
		Date:   req.Date,
		Title:  req.Title,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleConsumerUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Circuits         []diagram.CircuitData `json:"circuits"`
		MainSwitchRating float64               `json:"mainSwitchRating"`
		Author           string                `json:"author"`
		Date             string                `json:"date"`
		Title            string                `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	doc, err := h.service.PreviewConsumerUnit(r.Context(), req.Circuits, req.MainSwitchRating, diagram.DocumentOptions{
		Author: req.Author,
		Date:   req.Date,
		Title:  req.Title,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.service.ListBoards(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if boards == nil {
		boards = []diagram.Board{}
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *Handler) handleSaveBoard(w http.ResponseWriter, r *http.Request) {
	var board diagram.Board
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	saved, err := h.service.SaveBoard(r.Context(), &board)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
	h.logAudit(r, saved.ID, "board.save", map[string]any{
		"name":     saved.Name,
		"circuits": len(saved.Circuits),
	})
}

func (h *Handler) handleBoardByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" || r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	switch len(parts) {
	case 1:
		h.handleGetBoard(w, r, id)
		return
	case 2:
		switch parts[1] {
		case "diagram":
			h.handleBoardDiagram(w, r, id)
			return
		case "export.pdf":
			h.handleExportPDF(w, r, id)
			return
		case "export.xlsx":
			h.handleExportXLSX(w, r, id)
			return
		}
	case 4:
		if parts[1] == "circuits" && parts[3] == "diagram" {
			number, err := strconv.Atoi(parts[2])
			if err != nil {
				http.Error(w, "invalid circuit number", http.StatusBadRequest)
				return
			}
			h.handleCircuitDiagram(w, r, id, number)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleGetBoard(w http.ResponseWriter, r *http.Request, id string) {
	board, err := h.service.GetBoard(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) handleBoardDiagram(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := h.service.BoardDiagram(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleCircuitDiagram(w http.ResponseWriter, r *http.Request, id string, number int) {
	doc, err := h.service.CircuitDiagram(r.Context(), id, number)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveDiagramExport("pdf", result, time.Since(start))
	}()

	board, docs, err := h.service.BoardPack(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := interfaces.BuildLayoutPDF(docs...)
	if err != nil {
		result = metrics.ResultError
		h.logf("export pdf failed: board=%s err=%v", id, err)
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypePDF)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, board.ID, "board.export", map[string]any{"format": "pdf", "pages": len(docs)})
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveDiagramExport("xlsx", result, time.Since(start))
	}()

	board, err := h.service.GetBoard(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := interfaces.BuildScheduleXLSX(board)
	if err != nil {
		result = metrics.ResultError
		h.logf("export xlsx failed: board=%s err=%v", id, err)
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, board.ID, "board.export", map[string]any{"format": "xlsx"})
}

func (h *Handler) logAudit(r *http.Request, boardID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:     tenantID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "board",
		ResourceID:   boardID,
		BoardID:      boardID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		h.logf("audit log failed: action=%s board=%s err=%v", action, boardID, err)
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	var fields diagram.ValidationErrors
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  diagram.ErrInvalidCircuit.Error(),
			"fields": []diagram.FieldError(fields),
		})
	case errors.Is(err, auth.ErrTenantMismatch):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, diagram.ErrBoardNotFound), errors.Is(err, diagram.ErrCircuitNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, diagram.ErrInvalidBoard), errors.Is(err, diagram.ErrNilBoard):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

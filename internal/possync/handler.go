package possync

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pizzanorte/backoffice/internal/config"
)

// Handler exposes the POS export folder over HTTP for manual inspection and
// on-demand ingestion.
type Handler struct {
	service       *Service
	ingestService *IngestService
	cfg           config.POSSyncConfig
}

func NewHandler(service *Service, ingestService *IngestService, cfg config.POSSyncConfig) *Handler {
	return &Handler{
		service:       service,
		ingestService: ingestService,
		cfg:           cfg,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/possync/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/possync/files/download", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/possync/ingest", h.IngestFile).Methods("POST")
	router.HandleFunc("/api/possync/sync", h.SyncFolder).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	folderPath := query.Get("path")

	var files []*File
	var err error

	if folderPath != "" {
		folderID, err = h.service.FindFolderByPath(folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	files, err = h.service.ListFiles(folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=export.csv")

	err := h.service.DownloadFile(fileID, w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) IngestFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	summary, err := h.ingestService.IngestFile(r.Context(), fileID)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *Handler) SyncFolder(w http.ResponseWriter, r *http.Request) {
	folderID, err := h.service.FindFolderByPath(h.cfg.FolderPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	summaries, err := h.ingestService.SyncFolder(r.Context(), NewDownloader(h.service), DownloadOptions{
		FolderID:    folderID,
		DownloadDir: h.cfg.DownloadDir,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("sync failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"files": len(summaries), "summaries": summaries})
}

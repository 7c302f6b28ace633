package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"vendoprint/internal/domain"
	"vendoprint/internal/fileproc"
	"vendoprint/internal/service"
)

// UploadHandler handles file uploads and preview serving.
type UploadHandler struct {
	jobService *service.JobService
	processor  *fileproc.Processor
	uploadDir  string
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(jobService *service.JobService, processor *fileproc.Processor, uploadDir string) *UploadHandler {
	return &UploadHandler{
		jobService: jobService,
		processor:  processor,
		uploadDir:  uploadDir,
	}
}

// UploadResponse is the HTTP response for a successful upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
	Pages    int    `json:"pages"`
	FileType string `json:"file_type"`
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return
	}

	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file selected"})
		return
	}

	if !h.processor.Allowed(fileHeader.Filename) {
		respondError(c, service.ErrInvalidFileType)
		return
	}

	if fileHeader.Size > h.processor.MaxBytes() {
		respondError(c, service.ErrFileTooLarge)
		return
	}

	fileType := domain.FileTypeDocument
	if c.PostForm("file_type") == string(domain.FileTypePhoto) {
		fileType = domain.FileTypePhoto
	}

	name := h.processor.SafeName(fileHeader.Filename)
	path := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
		return
	}

	pages, err := h.processor.CountPages(path, fileType)
	if err != nil {
		// A bad count still yields a printable file; quote one page
		// rather than failing the upload.
		pages = 1
	}

	job, err := h.jobService.NewUpload(c.Request.Context(), service.UploadParams{
		FileName: fileHeader.Filename,
		FilePath: path,
		FileType: fileType,
		Pages:    pages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, UploadResponse{
		Success:  true,
		JobID:    job.ID,
		FilePath: job.FilePath,
		Pages:    job.Pages,
		FileType: string(job.FileType),
	})
}

// Preview handles GET /api/preview
func (h *UploadHandler) Preview(c *gin.Context) {
	requested := c.Query("file_path")
	if requested == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file_path is required"})
		return
	}

	// Confine preview serving to the upload directory.
	clean := filepath.Clean(requested)
	if !strings.HasPrefix(clean, filepath.Clean(h.uploadDir)+string(os.PathSeparator)) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file path"})
		return
	}

	if _, err := os.Stat(clean); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "preview not found"})
		return
	}

	c.File(clean)
}

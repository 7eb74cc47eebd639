package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cooklog/backend/internal/middleware"
	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/service"
)

// Uploads are read fully into memory before hitting storage; anything
// bigger than this is refused.
const maxUploadBytes = 20 << 20

// TargetHandler serves the generic attachment surface: the aggregate
// view of a target plus the four "attach to target" operations. The
// model key in the URL is resolved through a closed allow-list before
// anything touches the database.
type TargetHandler struct {
	attachmentService *service.AttachmentService
}

func NewTargetHandler(attachmentService *service.AttachmentService) *TargetHandler {
	return &TargetHandler{attachmentService: attachmentService}
}

func (h *TargetHandler) RegisterRoutes(router *gin.RouterGroup) {
	target := router.Group("/target/:model_key/:id")
	{
		target.GET("", h.GetAggregate)
		target.POST("/notes", h.CreateNote)
		target.POST("/urls", h.CreateURL)
		target.POST("/images", h.CreateImage)
		target.POST("/pdfs", h.CreatePDF)
	}
}

// resolveTarget handles the shared prefix of every attachment route:
// authentication, id parsing and the allow-list + ownership lookup.
// It writes the error response itself and returns nil on failure.
func (h *TargetHandler) resolveTarget(c *gin.Context) (uuid.UUID, *service.TargetRef) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, nil
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, nil
	}

	target, err := h.attachmentService.ResolveTarget(c.Request.Context(), userID, c.Param("model_key"), targetID)
	if err != nil {
		handleServiceError(c, err)
		return uuid.Nil, nil
	}

	return userID, target
}

func (h *TargetHandler) GetAggregate(c *gin.Context) {
	userID, target := h.resolveTarget(c)
	if target == nil {
		return
	}

	agg, err := h.attachmentService.Aggregate(c.Request.Context(), userID, target)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, agg)
}

func (h *TargetHandler) CreateNote(c *gin.Context) {
	userID, target := h.resolveTarget(c)
	if target == nil {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := models.Note{
		Title:    req.Title,
		Body:     req.Body,
		IsPinned: req.IsPinned,
	}
	if err := h.attachmentService.CreateNote(c.Request.Context(), userID, target, &note); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": note})
}

func (h *TargetHandler) CreateURL(c *gin.Context) {
	userID, target := h.resolveTarget(c)
	if target == nil {
		return
	}

	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref := models.ReferenceURL{
		Kind:        models.URLKindOther,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsPrimary:   req.IsPrimary,
	}
	if req.Kind != "" {
		ref.Kind = models.URLKind(req.Kind)
	}
	if err := h.attachmentService.CreateURL(c.Request.Context(), userID, target, &ref); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": ref})
}

func (h *TargetHandler) CreateImage(c *gin.Context) {
	userID, target := h.resolveTarget(c)
	if target == nil {
		return
	}

	var form ImageForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		contentType = ct
	}

	img := models.TrackedImage{
		Caption:   form.Caption,
		AltText:   form.AltText,
		SortOrder: form.SortOrder,
		IsCover:   form.IsCover,
	}
	if form.TakenAt != "" {
		takenAt, err := time.Parse(time.RFC3339, form.TakenAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "taken_at must be RFC3339"})
			return
		}
		img.TakenAt = &takenAt
	}

	err = h.attachmentService.CreateImage(c.Request.Context(), userID, target, &img, fileHeader.Filename, contentType, data)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": img})
}

func (h *TargetHandler) CreatePDF(c *gin.Context) {
	userID, target := h.resolveTarget(c)
	if target == nil {
		return
	}

	var form PDFForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pdf file is required"})
		return
	}
	data, _, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := models.PDFDocument{
		Kind:        models.PDFKindOther,
		Title:       form.Title,
		Description: form.Description,
		PageCount:   form.PageCount,
		SortOrder:   form.SortOrder,
	}
	if form.Kind != "" {
		doc.Kind = models.PDFKind(form.Kind)
	}

	err = h.attachmentService.CreatePDF(c.Request.Context(), userID, target, &doc, fileHeader.Filename, data)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pdf": doc})
}

var errTooLarge = errors.New("uploaded file is too large")

func readUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	if fileHeader.Size > maxUploadBytes {
		return nil, "", errTooLarge
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadBytes {
		return nil, "", errTooLarge
	}
	return data, http.DetectContentType(data), nil
}

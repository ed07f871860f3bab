package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

// DocumentController renders bulletins from request data alone
type DocumentController struct {
	documentService services.DocumentService
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService) *DocumentController {
	return &DocumentController{documentService: documentService}
}

func bulletinFilename(studentName string) string {
	name := strings.Join(strings.Fields(studentName), "_")
	if name == "" {
		name = "document"
	}
	return "bulletin_" + name + ".pdf"
}

// PreviewBulletin renders the empty nursery curriculum
// @Summary Preview bulletin
// @Tags documents
// @Produce application/pdf
// @Security BearerAuth
// @Param studentName query string true "Student name"
// @Param classe query string false "Class"
// @Param annee query string false "School year" default(2025/2026)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Student name is required"
// @Router /documents/preview/bulletin [get]
func (c *DocumentController) PreviewBulletin(ctx *gin.Context) {
	name := ctx.Query("studentName")
	data, err := c.documentService.Preview(name, ctx.Query("classe"), ctx.Query("annee"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, data, bulletinFilename(name), true)
}

// DownloadBulletin renders the posted bulletin as an attachment
// @Summary Download bulletin
// @Tags documents
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param request body dto.BulletinRequest true "Bulletin content"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /documents/download/bulletin [post]
func (c *DocumentController) DownloadBulletin(ctx *gin.Context) {
	c.generate(ctx, false)
}

// GenerateBulletin renders the posted bulletin inline
// @Summary Generate bulletin
// @Tags documents
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param request body dto.BulletinRequest true "Bulletin content"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /documents/generate/bulletin [post]
func (c *DocumentController) GenerateBulletin(ctx *gin.Context) {
	c.generate(ctx, true)
}

func (c *DocumentController) generate(ctx *gin.Context, inline bool) {
	var req dto.BulletinRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	data, err := c.documentService.Generate(&req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, data, bulletinFilename(req.StudentName), inline)
}

package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"orgdrive/storage"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
)

// BlobWriter is a blob store that takes uploaded bytes directly.
type BlobWriter interface {
	storage.Uploader
	Exists(ctx context.Context, ref string) (bool, error)
}

// UploadController accepts file bytes for stores that cannot presign uploads.
// The ticket in the URL names the storage ref the bytes are written to, and
// each ref can be written once.
type UploadController struct {
	writer       BlobWriter
	ticketSecret string
	maxFileSize  int64
}

func NewUploadController(writer BlobWriter, ticketSecret string, maxFileSize int64) *UploadController {
	return &UploadController{writer: writer, ticketSecret: ticketSecret, maxFileSize: maxFileSize}
}

func (uc *UploadController) Upload(c *gin.Context) {
	ref, err := utils.VerifyUploadTicket(c.Param("ticket"), uc.ticketSecret)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid or expired upload ticket")
		return
	}

	if c.Request.ContentLength > uc.maxFileSize {
		utils.PayloadTooLargeResponse(c, "File exceeds the maximum upload size")
		return
	}

	exists, err := uc.writer.Exists(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		utils.ConflictResponse(c, "Upload ticket has already been used", nil)
		return
	}

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxFileSize)
	err = uc.writer.Put(c.Request.Context(), ref, body, c.Request.ContentLength, contentType)

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		utils.PayloadTooLargeResponse(c, "File exceeds the maximum upload size")
		return
	case err != nil:
		respondError(c, err)
		return
	}

	utils.Component("upload").WithField("storage_ref", ref).Info("blob uploaded")
	utils.SuccessResponse(c, "File uploaded", gin.H{"storageId": ref})
}

func readLimited(c *gin.Context, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
}

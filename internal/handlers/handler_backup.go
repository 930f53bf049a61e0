package handlers

import (
	"bytes"
	"net/http"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// maxBackupBytes bounds the size of an uploaded backup document.
const maxBackupBytes = 10 << 20

// backupHandler handles export, import and the backup archive.
type backupHandler struct {
	backupService portssvc.BackupSvcFacade
}

func newBackupHandler(bs portssvc.BackupSvcFacade) *backupHandler {
	return &backupHandler{backupService: bs}
}

// registerBackupRoutes registers all backup routes.
func registerBackupRoutes(rg *gin.RouterGroup, backupService portssvc.BackupSvcFacade) {
	h := newBackupHandler(backupService)

	backup := rg.Group("/backup")
	{
		backup.GET("", h.exportBackup)
		backup.POST("", h.importBackup)
		backup.POST("/archive", h.archiveBackup)
		backup.GET("/archive", h.listArchives)
		backup.POST("/archive/:name/restore", h.restoreArchive)
	}
}

// exportBackup godoc
// @Summary Download a backup
// @Description Downloads the active ledger as a version 1.0 backup document
// @Tags backup
// @Produce json
// @Success 200 {file} file "Backup document"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to export backup"
// @Security BearerAuth
// @Router /backup [get]
func (h *backupHandler) exportBackup(c *gin.Context) {
	snapshot, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		writeError(c, err, "export backup")
		return
	}
	var buf bytes.Buffer
	if err := h.backupService.Encode(snapshot, &buf); err != nil {
		writeError(c, err, "export backup")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+domain.BackupFileName(snapshot.BackupTimestamp)+`"`)
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// importBackup godoc
// @Summary Restore an uploaded backup
// @Description Replaces the active ledger with the uploaded backup document
// @Tags backup
// @Accept json
// @Produce json
// @Param document body object true "Backup document"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} ErrorResponse "Malformed backup document"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Backup belongs to another account"
// @Failure 413 {object} ErrorResponse "Backup document too large"
// @Failure 500 {object} ErrorResponse "Failed to import backup"
// @Security BearerAuth
// @Router /backup [post]
func (h *backupHandler) importBackup(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupBytes)
	ledger, err := h.backupService.Import(c.Request.Context(), body)
	if err != nil {
		writeError(c, err, "import backup")
		return
	}
	c.JSON(http.StatusOK, dto.ImportResponse{Transactions: len(ledger.Transactions), Loans: len(ledger.Loans)})
}

// archiveBackup godoc
// @Summary Archive a backup
// @Description Writes a backup of the active ledger to the account's archive
// @Tags backup
// @Produce json
// @Success 201 {object} dto.ArchiveResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 501 {object} ErrorResponse "No archive configured"
// @Failure 500 {object} ErrorResponse "Failed to archive backup"
// @Security BearerAuth
// @Router /backup/archive [post]
func (h *backupHandler) archiveBackup(c *gin.Context) {
	name, err := h.backupService.Archive(c.Request.Context())
	if err != nil {
		writeError(c, err, "archive backup")
		return
	}
	c.JSON(http.StatusCreated, dto.ArchiveResponse{Name: name})
}

// listArchives godoc
// @Summary List archived backups
// @Description Lists the active account's archived backups, newest first
// @Tags backup
// @Produce json
// @Success 200 {object} dto.ListArchivesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 501 {object} ErrorResponse "No archive configured"
// @Failure 500 {object} ErrorResponse "Failed to list archived backups"
// @Security BearerAuth
// @Router /backup/archive [get]
func (h *backupHandler) listArchives(c *gin.Context) {
	entries, err := h.backupService.ListArchives(c.Request.Context())
	if err != nil {
		writeError(c, err, "list archived backups")
		return
	}
	c.JSON(http.StatusOK, dto.ListArchivesResponse{Archives: entries})
}

// restoreArchive godoc
// @Summary Restore an archived backup
// @Tags backup
// @Produce json
// @Param name path string true "Archived backup name"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} ErrorResponse "Invalid name or malformed backup"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Backup belongs to another account"
// @Failure 404 {object} ErrorResponse "Archived backup not found"
// @Failure 500 {object} ErrorResponse "Failed to restore archived backup"
// @Security BearerAuth
// @Router /backup/archive/{name}/restore [post]
func (h *backupHandler) restoreArchive(c *gin.Context) {
	ledger, err := h.backupService.RestoreArchive(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err, "restore archived backup")
		return
	}
	c.JSON(http.StatusOK, dto.ImportResponse{Transactions: len(ledger.Transactions), Loans: len(ledger.Loans)})
}

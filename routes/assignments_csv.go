package routes

import (
	"condo-management-server/services"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
)

// GET /api/assignments/export.csv — PM only
func ExportAssignmentsCSV(ctx iris.Context) {
	filename, content, err := services.ExportAssignments(storage.DB, time.Now())
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.ContentType("text/csv; charset=utf-8")
	ctx.Write(content)
}

// POST /api/assignments/import.csv?dry_run={0|1} — PM only
// Multipart upload with a 'file' field. Returns the import summary; when not
// a dry run, persists a copy of the upload and, if rows failed, the error
// CSV under the media dir.
func ImportAssignmentsCSV(ctx iris.Context) {
	file, _, err := ctx.FormFile("file")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "file is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "could not read file")
		return
	}

	dryRunParam := strings.ToLower(ctx.URLParamDefault("dry_run", "0"))
	dryRun := dryRunParam == "1" || dryRunParam == "true" || dryRunParam == "yes" || dryRunParam == "y"

	now := time.Now()
	if !dryRun {
		if _, err := storage.SaveImportUpload(raw, now); err != nil {
			utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "could not persist upload: "+err.Error())
			return
		}
	}

	result, err := services.ImportAssignments(storage.DB, string(raw), dryRun, now)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	errorsCSVURL := ""
	if result.Errors > 0 && !dryRun {
		if url, err := storage.SaveImportErrors(result.ErrorsCSV, now); err == nil {
			errorsCSVURL = url
		}
	}

	utils.Audit(ctx, "assignments.import", "unit_parking_assignment", 0, nil, iris.Map{
		"created": result.Created, "updated": result.Updated,
		"errors": result.Errors, "total_rows": result.TotalRows, "dry_run": dryRun,
	})

	ctx.JSON(iris.Map{
		"created":        result.Created,
		"updated":        result.Updated,
		"errors":         result.Errors,
		"total_rows":     result.TotalRows,
		"dry_run":        dryRun,
		"errors_csv_url": errorsCSVURL,
		"error_rows":     result.ErrorRows,
	})
}

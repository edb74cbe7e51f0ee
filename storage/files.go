package storage

import (
	"os"
	"path/filepath"
	"time"
)

// Local media storage for CSV artifacts: a copy of every non-dry-run upload
// (for audit) and the error CSV produced when an import had bad rows. Layout
// mirrors MEDIA_ROOT/imports and MEDIA_ROOT/import_errors; files are served
// under MEDIA_URL by the reverse proxy.

func mediaRoot() string {
	if root := os.Getenv("MEDIA_ROOT"); root != "" {
		return root
	}
	return "media"
}

func mediaURL() string {
	if u := os.Getenv("MEDIA_URL"); u != "" {
		return u
	}
	return "/media"
}

func writeMediaFile(subdir, name string, content []byte) (string, error) {
	dir := filepath.Join(mediaRoot(), subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return mediaURL() + "/" + subdir + "/" + name, nil
}

// SaveImportUpload persists the raw uploaded CSV and returns its public URL.
func SaveImportUpload(content []byte, now time.Time) (string, error) {
	name := "assignments_uploaded_" + now.UTC().Format("20060102T150405Z") + ".csv"
	return writeMediaFile("imports", name, content)
}

// SaveImportErrors persists the companion error CSV and returns its public URL.
func SaveImportErrors(csvText string, now time.Time) (string, error) {
	name := "assignments_import_errors_" + now.UTC().Format("20060102T150405Z") + ".csv"
	return writeMediaFile("import_errors", name, []byte(csvText))
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Files live on disk under this root, keyed by the entry's storage path.
func storageRoot() string {
	if p := os.Getenv("STORAGE_PATH"); p != "" {
		return p
	}
	return "storage"
}

// GET /api/registrations/{id}/files/{fieldID}/{filename}
//
// Serves the file stored for one data entry. The filename in the path must
// match the stored one, so links go stale after a re-upload.
func RegistrationFile(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	fieldID, err := strconv.ParseUint(chi.URLParam(r, "fieldID"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, "file_not_found")
		return
	}
	entry := reg.DataByField()[uint(fieldID)]
	if entry == nil || !entry.HasFile() || entry.Filename != chi.URLParam(r, "filename") {
		writeErr(w, http.StatusNotFound, "file_not_found")
		return
	}
	f, err := os.Open(filepath.Join(storageRoot(), filepath.FromSlash(entry.StorageFileID)))
	if err != nil {
		writeErr(w, http.StatusNotFound, "file_not_found")
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+entry.Filename+`"`)
	http.ServeContent(w, r, entry.Filename, entry.UpdatedAt, f)
}

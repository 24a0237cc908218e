package services

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/confreg/confreg/internal/models"
)

// SecureFilename strips path separators and anything outside a conservative
// character set, falling back when nothing safe remains.
func SecureFilename(name, fallback string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return fallback
	}
	return out
}

// BuildStoragePath composes the backend path for an entry's uploaded file.
// The unix timestamp keeps re-uploads of the same field distinct.
func BuildStoragePath(d *models.RegistrationData, reg *models.Registration, now time.Time) string {
	name := fmt.Sprintf("%d-%d-%s", d.FieldID, now.Unix(), SecureFilename(d.Filename, "file"))
	return path.Join(
		"event", strconv.FormatUint(uint64(reg.EventID), 10),
		"registrations", strconv.FormatUint(uint64(reg.RegistrationFormID), 10),
		strconv.FormatUint(uint64(reg.ID), 10),
		name,
	)
}

// SetFile attaches an uploaded file to a data entry, replacing any previous
// one (a single entry holds at most one file).
func SetFile(d *models.RegistrationData, reg *models.Registration, filename, contentType string, size int64, now time.Time) {
	d.Filename = filename
	d.ContentType = contentType
	d.Size = size
	d.StorageFileID = BuildStoragePath(d, reg, now)
}

func ClearFile(d *models.RegistrationData) {
	d.Filename = ""
	d.ContentType = ""
	d.Size = 0
	d.StorageFileID = ""
}

// FileLocator returns the download path for an entry's stored file.
// Calling it on an entry without a file is a caller bug.
func FileLocator(d *models.RegistrationData) string {
	if !d.HasFile() {
		panic("registration data: file locator requested but no file is stored")
	}
	return fmt.Sprintf("/api/registrations/%d/files/%d/%s", d.RegistrationID, d.FieldID, d.Filename)
}

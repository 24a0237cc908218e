package services

import (
	"strings"
	"testing"
	"time"

	"github.com/confreg/confreg/internal/models"
)

func TestSecureFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"talk.pdf", "talk.pdf"},
		{"../../etc/passwd", "passwd"},
		{"über cool häck.png", "ber_cool_h_ck.png"},
		{"...", "file"},
		{"", "file"},
		{"a b\\c d.txt", "c_d.txt"},
	}
	for _, tc := range cases {
		if got := SecureFilename(tc.in, "file"); got != tc.want {
			t.Errorf("SecureFilename(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestBuildStoragePath(t *testing.T) {
	reg := newTestReg(models.StateComplete, false, false)
	reg.ID = 7
	reg.EventID = 3
	reg.RegistrationFormID = 5
	entry := models.RegistrationData{RegistrationID: 7, FieldID: 11, Filename: "cv.pdf"}

	now := time.Unix(1700000000, 0)
	got := BuildStoragePath(&entry, reg, now)
	want := "event/3/registrations/5/7/11-1700000000-cv.pdf"
	if got != want {
		t.Errorf("path: want %q, got %q", want, got)
	}

	// a re-upload of the same field a second later lands on a new path
	later := BuildStoragePath(&entry, reg, now.Add(time.Second))
	if later == got {
		t.Error("re-upload must produce a distinct path")
	}
}

func TestSetAndClearFile(t *testing.T) {
	reg := newTestReg(models.StateComplete, false, false)
	reg.ID = 7
	entry := models.RegistrationData{RegistrationID: 7, FieldID: 11}

	SetFile(&entry, reg, "cv.pdf", "application/pdf", 1234, time.Now())
	if !entry.HasFile() {
		t.Fatal("entry should have a file")
	}
	if !strings.HasSuffix(entry.StorageFileID, "-cv.pdf") {
		t.Errorf("unexpected storage path %q", entry.StorageFileID)
	}
	if loc := FileLocator(&entry); loc != "/api/registrations/7/files/11/cv.pdf" {
		t.Errorf("locator: got %q", loc)
	}

	ClearFile(&entry)
	if entry.HasFile() || entry.Filename != "" || entry.Size != 0 {
		t.Error("clear did not remove the file")
	}
}

func TestFileLocatorWithoutFilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing file")
		}
	}()
	entry := models.RegistrationData{}
	_ = FileLocator(&entry)
}

package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesystemUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	u, err := NewFilesystemUploader(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewFilesystemUploader failed: %v", err)
	}

	body := strings.NewReader("not-really-a-jpeg")
	url, err := u.Upload(context.Background(), "box.JPG", "image/jpeg", body, int64(body.Len()))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:8080/uploads/packages/") {
		t.Errorf("unexpected public URL: %s", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("extension should be preserved lowercase: %s", url)
	}

	rel := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
	if string(data) != "not-really-a-jpeg" {
		t.Error("file content mismatch")
	}
}

func TestFilesystemUploader_RejectsNonImage(t *testing.T) {
	u, err := NewFilesystemUploader(t.TempDir(), "http://localhost/uploads")
	if err != nil {
		t.Fatalf("NewFilesystemUploader failed: %v", err)
	}

	body := strings.NewReader("#!/bin/sh")
	if _, err := u.Upload(context.Background(), "x.sh", "application/x-sh", body, int64(body.Len())); err == nil {
		t.Error("non-image content type should be rejected")
	}
}

func TestObjectNameUnique(t *testing.T) {
	a := objectName("box.png")
	b := objectName("box.png")
	if a == b {
		t.Error("object names should not collide")
	}
	if !strings.HasSuffix(a, ".png") {
		t.Errorf("extension lost: %s", a)
	}
}

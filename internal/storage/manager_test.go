// manager_test.go - Tests for storage layer
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func createTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates store successfully", func(t *testing.T) {
		store := createTestStore(t)
		if store.uploadDir == "" {
			t.Error("Expected uploadDir to be set")
		}
	})

	t.Run("creates upload directory", func(t *testing.T) {
		uploadDir := filepath.Join(t.TempDir(), "uploads")

		if _, err := NewLocalStore(uploadDir); err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			t.Error("Expected upload directory to be created")
		}
	})
}

func TestSave(t *testing.T) {
	t.Run("saves file successfully", func(t *testing.T) {
		store := createTestStore(t)

		content := "Predictor,Coefficient\nAge,-7\n"
		info, err := store.Save("study.csv", strings.NewReader(content))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		if info.ID == "" {
			t.Error("Expected file ID to be set")
		}
		if info.Name != "study.csv" {
			t.Errorf("Name = %q, want %q", info.Name, "study.csv")
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Size = %d, want %d", info.Size, len(content))
		}
		if info.Status != "uploaded" {
			t.Errorf("Status = %q, want %q", info.Status, "uploaded")
		}

		// The payload must land on disk under the file's ID.
		data, err := os.ReadFile(filepath.Join(store.uploadDir, info.ID))
		if err != nil {
			t.Fatalf("Failed to read saved file: %v", err)
		}
		if string(data) != content {
			t.Errorf("Saved content = %q, want %q", data, content)
		}
	})

	t.Run("saves bytes", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.SaveBytes("notes.tsv", []byte("a\tb\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}
		if info.Size != 4 {
			t.Errorf("Size = %d, want 4", info.Size)
		}
	})
}

func TestGet(t *testing.T) {
	t.Run("returns saved metadata", func(t *testing.T) {
		store := createTestStore(t)

		saved, err := store.SaveBytes("study.csv", []byte("x\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}

		info, err := store.Get(saved.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if info.Name != "study.csv" {
			t.Errorf("Name = %q, want %q", info.Name, "study.csv")
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		store := createTestStore(t)
		if _, err := store.Get("not-a-file"); err == nil {
			t.Error("Expected error for unknown file ID")
		}
	})
}

func TestList(t *testing.T) {
	t.Run("returns newest first", func(t *testing.T) {
		store := createTestStore(t)

		first, err := store.SaveBytes("first.csv", []byte("a\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}
		second, err := store.SaveBytes("second.csv", []byte("b\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}

		// Force distinct upload times; Save uses time.Now and two
		// saves can share a timestamp.
		store.mu.Lock()
		store.files[first.ID].UploadedAt = time.Now().Add(-1 * time.Minute)
		store.mu.Unlock()

		list, err := store.List(10)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("Expected 2 files, got %d", len(list))
		}
		if list[0].ID != second.ID {
			t.Errorf("Expected newest file first, got %q", list[0].Name)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		store := createTestStore(t)
		for i := 0; i < 5; i++ {
			if _, err := store.SaveBytes("f.csv", []byte("x\n")); err != nil {
				t.Fatalf("SaveBytes failed: %v", err)
			}
		}

		list, err := store.List(3)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 3 {
			t.Errorf("Expected 3 files, got %d", len(list))
		}
	})

	t.Run("empty store", func(t *testing.T) {
		store := createTestStore(t)
		list, err := store.List(10)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Expected empty list, got %d files", len(list))
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes file and metadata", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.SaveBytes("study.csv", []byte("x\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}

		if err := store.Delete(info.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(info.ID); err == nil {
			t.Error("Expected metadata to be gone after delete")
		}
		path := filepath.Join(store.uploadDir, info.ID)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Expected file to be removed from disk")
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		store := createTestStore(t)
		if err := store.Delete("not-a-file"); err == nil {
			t.Error("Expected error for unknown file ID")
		}
	})
}

func TestRename(t *testing.T) {
	t.Run("updates display name", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.SaveBytes("old.csv", []byte("x\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}

		renamed, err := store.Rename(info.ID, "new.csv")
		if err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if renamed.Name != "new.csv" {
			t.Errorf("Name = %q, want %q", renamed.Name, "new.csv")
		}

		got, err := store.Get(info.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name != "new.csv" {
			t.Errorf("Stored name = %q, want %q", got.Name, "new.csv")
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		store := createTestStore(t)
		if _, err := store.Rename("not-a-file", "x.csv"); err == nil {
			t.Error("Expected error for unknown file ID")
		}
	})
}

func TestGetFilePath(t *testing.T) {
	t.Run("returns readable path", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.SaveBytes("study.csv", []byte("payload\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}

		path, err := store.GetFilePath(info.ID)
		if err != nil {
			t.Fatalf("GetFilePath failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read file at returned path: %v", err)
		}
		if string(data) != "payload\n" {
			t.Errorf("Content = %q, want %q", data, "payload\n")
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		store := createTestStore(t)
		if _, err := store.GetFilePath("not-a-file"); err == nil {
			t.Error("Expected error for unknown file ID")
		}
	})
}

func TestMetadataSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	info, err := store.SaveBytes("study.csv", []byte("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("SaveBytes failed: %v", err)
	}
	if err := store.SetStatus(info.ID, "ready"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if _, err := store.Rename(info.ID, "cohort.csv"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	// A fresh store over the same directory reloads the sidecars.
	reopened, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	got, err := reopened.Get(info.ID)
	if err != nil {
		t.Fatalf("Get after restart failed: %v", err)
	}
	if got.Name != "cohort.csv" {
		t.Errorf("Name = %q, want %q", got.Name, "cohort.csv")
	}
	if got.Status != "ready" {
		t.Errorf("Status = %q, want %q", got.Status, "ready")
	}
	if got.Size != info.Size {
		t.Errorf("Size = %d, want %d", got.Size, info.Size)
	}

	list, err := reopened.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 file after restart, got %d", len(list))
	}
}

func TestDeleteRemovesSidecar(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	info, err := store.SaveBytes("study.csv", []byte("x\n"))
	if err != nil {
		t.Fatalf("SaveBytes failed: %v", err)
	}

	if err := store.Delete(info.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	reopened, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if _, err := reopened.Get(info.ID); err == nil {
		t.Error("deleted file should not reappear after restart")
	}
}

func TestSetStatus(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.SaveBytes("study.csv", []byte("x\n"))
		if err != nil {
			t.Fatalf("SaveBytes failed: %v", err)
		}

		if err := store.SetStatus(info.ID, "ready"); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		got, err := store.Get(info.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Status != "ready" {
			t.Errorf("Status = %q, want %q", got.Status, "ready")
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		store := createTestStore(t)
		if err := store.SetStatus("not-a-file", "ready"); err == nil {
			t.Error("Expected error for unknown file ID")
		}
	})
}

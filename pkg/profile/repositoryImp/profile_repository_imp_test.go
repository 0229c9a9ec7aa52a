package repositoryImp

import (
	"path/filepath"
	"testing"

	"soilwatch/database"
	"soilwatch/entities"
)

func TestReplaceKeepsOrderAndTags(t *testing.T) {
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "soil.db"), "")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	r := New(db)
	if saved, err := r.Saved(); err != nil || saved {
		t.Fatalf("fresh Saved = %v, %v", saved, err)
	}

	first := []entities.Profile{
		{ID: "b", Name: "Zed", Tags: []string{"Drip"}},
		{ID: "a", Name: "Amy", Active: true},
	}
	if err := r.Replace(first); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("order = %+v", got)
	}
	if len(got[0].Tags) != 1 || got[0].Tags[0] != "Drip" || !got[1].Active {
		t.Fatalf("fields lost: %+v", got)
	}

	if err := r.Replace([]entities.Profile{{ID: "c", Name: "Cat"}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, _ = r.List()
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("after replace = %+v", got)
	}

	if err := r.Replace(nil); err != nil {
		t.Fatalf("Replace(nil): %v", err)
	}
	got, _ = r.List()
	if saved, err := r.Saved(); err != nil || !saved || len(got) != 0 {
		t.Fatalf("emptied: saved=%v err=%v list=%+v", saved, err, got)
	}
}

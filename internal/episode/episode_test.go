package episode

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSortNumericNotLexical(t *testing.T) {
	frags := []Fragment{
		{Path: "b_part10_1.mp3", Chunk: 10, Sub: 1},
		{Path: "b_part2_1.mp3", Chunk: 2, Sub: 1},
		{Path: "b_part2_2.mp3", Chunk: 2, Sub: 2},
		{Path: "b_part1_1.mp3", Chunk: 1, Sub: 1},
	}
	Sort(frags)
	want := []string{"b_part1_1.mp3", "b_part2_1.mp3", "b_part2_2.mp3", "b_part10_1.mp3"}
	for i, f := range frags {
		if f.Path != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, f.Path, want[i])
		}
	}
}

func TestNaming(t *testing.T) {
	base := BaseName("2024-03-01", "My Title")
	if base != "20240301_my-title" {
		t.Fatalf("base: %q", base)
	}
	if got := SingleName(base, "mp3"); got != "20240301_my-title.mp3" {
		t.Fatalf("single: %q", got)
	}
	if got := PartName(base, "mp3", 3, 2); got != "20240301_my-title_part3_2.mp3" {
		t.Fatalf("part: %q", got)
	}
	if got := FullName(base, "mp3"); got != "20240301_my-title_full.mp3" {
		t.Fatalf("full: %q", got)
	}
}

func TestMergeZeroFragmentsFails(t *testing.T) {
	err := Merger{}.Merge(nil, filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("expected error for zero fragments")
	}
}

func TestMergeSingleFragmentCopies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ep_part1_1.mp3")
	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "ep_full.mp3")
	if err := (Merger{}).Merge([]Fragment{{Path: src, Chunk: 1, Sub: 1}}, out); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "audio" {
		t.Fatalf("copy content wrong: %q", b)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source fragment should be retained: %v", err)
	}
}

func TestPublishCopies(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	p := filepath.Join(srcDir, "20240301_x_full.mp3")
	if err := os.WriteFile(p, []byte("m"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Publish([]string{p}, dstDir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "20240301_x_full.mp3")); err != nil {
		t.Fatal(err)
	}
}

func TestPublishReportsFailureButContinues(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	good := filepath.Join(srcDir, "good_full.mp3")
	if err := os.WriteFile(good, []byte("m"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(srcDir, "missing_full.mp3")
	err := Publish([]string{missing, good}, dstDir)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, statErr := os.Stat(filepath.Join(dstDir, "good_full.mp3")); statErr != nil {
		t.Fatalf("good episode should still be published: %v", statErr)
	}
}

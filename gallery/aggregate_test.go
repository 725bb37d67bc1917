package gallery

import (
	"reflect"
	"testing"
	"time"

	"github.com/plabs/showwall/models"
)

func sub(id, handle string, createdAt time.Time, urls ...string) models.Submission {
	images := make(models.ImageList, 0, len(urls))
	for _, u := range urls {
		images = append(images, models.ImageRef{URL: u, Path: "/data/" + u})
	}
	return models.Submission{
		ID:           id,
		Name:         "user-" + handle,
		SocialHandle: handle,
		Images:       images,
		CreatedAt:    createdAt,
	}
}

func TestGroupMergesDuplicateHandles(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	got := Group([]models.Submission{
		sub("a", "@alice", t1, "one.png"),
		sub("b", "@alice", t2, "two.png", "three.png"),
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	g := got[0]
	if g.ID != "a" {
		t.Errorf("group should keep first-seen id, got %q", g.ID)
	}
	if !g.CreatedAt.Equal(t2) {
		t.Errorf("group should take the later createdAt, got %v", g.CreatedAt)
	}
	wantURLs := []string{"one.png", "two.png", "three.png"}
	if len(g.Images) != len(wantURLs) {
		t.Fatalf("expected %d images, got %d", len(wantURLs), len(g.Images))
	}
	for i, want := range wantURLs {
		if g.Images[i].URL != want {
			t.Errorf("image %d: got %q want %q", i, g.Images[i].URL, want)
		}
	}
}

func TestGroupEarlierDuplicateKeepsLaterTimestamp(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	// Duplicate arrives with an OLDER createdAt: images still append, but the
	// group timestamp must not move backwards.
	got := Group([]models.Submission{
		sub("a", "@bob", t2, "new.png"),
		sub("b", "@bob", t1, "old.png"),
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if !got[0].CreatedAt.Equal(t2) {
		t.Errorf("createdAt moved backwards: got %v want %v", got[0].CreatedAt, t2)
	}
	if got[0].Images[0].URL != "new.png" || got[0].Images[1].URL != "old.png" {
		t.Errorf("images not in input order: %+v", got[0].Images)
	}
}

func TestGroupSortsNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	got := Group([]models.Submission{
		sub("a", "@first", base.Add(1*time.Hour), "a.png"),
		sub("b", "@third", base.Add(3*time.Hour), "b.png"),
		sub("c", "@second", base.Add(2*time.Hour), "c.png"),
	})

	want := []string{"@third", "@second", "@first"}
	for i, handle := range want {
		if got[i].SocialHandle != handle {
			t.Errorf("position %d: got %q want %q", i, got[i].SocialHandle, handle)
		}
	}
}

func TestGroupIdempotentOnGroupedInput(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	grouped := Group([]models.Submission{
		sub("a", "@x", base.Add(2*time.Hour), "x1.png", "x2.png"),
		sub("b", "@y", base.Add(1*time.Hour), "y1.png"),
	})

	again := Group(grouped)
	if !reflect.DeepEqual(grouped, again) {
		t.Errorf("grouping an already-grouped listing changed it:\nfirst:  %+v\nsecond: %+v", grouped, again)
	}
}

func TestGroupDoesNotMutateInput(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := []models.Submission{
		sub("a", "@z", t1, "z1.png"),
		sub("b", "@z", t1.Add(time.Minute), "z2.png"),
	}
	before := len(in[0].Images)

	_ = Group(in)

	if len(in[0].Images) != before {
		t.Errorf("input record image list grew from %d to %d", before, len(in[0].Images))
	}
}

func TestGroupEmpty(t *testing.T) {
	if got := Group(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d groups", len(got))
	}
}

package attachment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func blobOf(name string, size int) Blob {
	return Blob{Name: name, ContentType: "image/png", Data: bytes.Repeat([]byte{'x'}, size)}
}

func names(blobs []Blob) []string {
	out := make([]string, 0, len(blobs))
	for _, b := range blobs {
		out = append(out, b.Name)
	}
	return out
}

func TestNewSetSnapshotIsIdentity(t *testing.T) {
	for _, refs := range [][]string{
		{},
		{"/uploads/a.png"},
		{"/uploads/a.png", "/uploads/b.png", "/uploads/a.png"},
	} {
		s := NewSet(refs)
		kept, pending := s.Snapshot()
		assert.Equal(t, refs, kept)
		assert.Empty(t, pending)
	}
}

func TestNewSetCopiesInput(t *testing.T) {
	refs := []string{"/uploads/a.png", "/uploads/b.png"}
	s := NewSet(refs)
	refs[0] = "changed"

	kept, _ := s.Snapshot()
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, kept)
}

func TestMarkRemovedKeepsRelativeOrder(t *testing.T) {
	s := NewSet([]string{"a", "b", "c", "d"})

	assert.True(t, s.MarkRemoved("b"))
	kept, _ := s.Snapshot()
	assert.Equal(t, []string{"a", "c", "d"}, kept)

	// removal is one way
	assert.False(t, s.MarkRemoved("b"))
	kept, _ = s.Snapshot()
	assert.Equal(t, []string{"a", "c", "d"}, kept)
}

func TestMarkRemovedFirstMatchOnly(t *testing.T) {
	s := NewSet([]string{"a", "b", "a"})
	s.MarkRemoved("a")
	kept, _ := s.Snapshot()
	assert.Equal(t, []string{"b", "a"}, kept)
}

func TestMarkRemovedLeavesPendingAlone(t *testing.T) {
	s := NewSet([]string{"a"})
	s.StageNew([]Blob{blobOf("x.png", 10)})

	assert.False(t, s.MarkRemoved("x.png"))
	kept, pending := s.Snapshot()
	assert.Equal(t, []string{"a"}, kept)
	assert.Equal(t, []string{"x.png"}, names(pending))
}

func TestStageNewFiltersOversized(t *testing.T) {
	s := NewSet(nil)
	res := s.StageNew([]Blob{
		blobOf("small.png", 100),
		blobOf("huge.png", MaxBlobSize+1),
		blobOf("edge.png", MaxBlobSize),
		blobOf("huge2.png", MaxBlobSize*2),
	})

	assert.Equal(t, StageResult{Staged: 2, Ignored: 2}, res)
	assert.Equal(t, "2 files ignored (larger than 5MB)", res.Warning())
	_, pending := s.Snapshot()
	assert.Equal(t, []string{"small.png", "edge.png"}, names(pending))
}

func TestStageNewAllRejectedIsNotAnError(t *testing.T) {
	s := NewSet([]string{"a"})
	res := s.StageNew([]Blob{blobOf("huge.png", MaxBlobSize+1)})

	assert.Equal(t, 0, res.Staged)
	assert.Equal(t, 1, res.Ignored)
	assert.Equal(t, "1 file ignored (larger than 5MB)", res.Warning())
	assert.Equal(t, 1, s.Len())
}

func TestStageNewAppends(t *testing.T) {
	s := NewSet([]string{"a"})
	s.StageNew([]Blob{blobOf("1.png", 1)})
	s.StageNew([]Blob{blobOf("2.png", 1)})

	kept, pending := s.Snapshot()
	assert.Equal(t, []string{"a"}, kept)
	assert.Equal(t, []string{"1.png", "2.png"}, names(pending))
	assert.Equal(t, "", StageResult{Staged: 1}.Warning())
}

func TestReplacePendingKeepsExisting(t *testing.T) {
	s := NewSet([]string{"a", "b"})
	s.StageNew([]Blob{blobOf("1.png", 1), blobOf("2.png", 1)})
	s.MarkRemoved("a")

	res := s.ReplacePending([]Blob{blobOf("3.png", 1)})
	assert.Equal(t, 1, res.Staged)

	kept, pending := s.Snapshot()
	assert.Equal(t, []string{"b"}, kept)
	assert.Equal(t, []string{"3.png"}, names(pending))
}

func TestSnapshotIsPure(t *testing.T) {
	s := NewSet([]string{"a"})
	s.StageNew([]Blob{blobOf("1.png", 1)})

	kept, pending := s.Snapshot()
	kept[0] = "mutated"
	pending[0].Name = "mutated"

	kept2, pending2 := s.Snapshot()
	assert.Equal(t, []string{"a"}, kept2)
	assert.Equal(t, []string{"1.png"}, names(pending2))
}

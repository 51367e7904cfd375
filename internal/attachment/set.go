// Package attachment holds the per-edit-session image state of a record:
// existing references the store already knows, and new blobs staged for upload.
package attachment

import "fmt"

// MaxBlobSize is the upload ceiling for a single image.
const MaxBlobSize = 5 * 1024 * 1024

// Blob is a new image not yet known to the store.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the blob length in bytes.
func (b Blob) Size() int64 { return int64(len(b.Data)) }

// StageResult reports how a file selection was applied.
type StageResult struct {
	Staged  int
	Ignored int
}

// Warning returns the aggregate rejection message, or "" when nothing was ignored.
func (r StageResult) Warning() string {
	if r.Ignored == 0 {
		return ""
	}
	if r.Ignored == 1 {
		return "1 file ignored (larger than 5MB)"
	}
	return fmt.Sprintf("%d files ignored (larger than 5MB)", r.Ignored)
}

// entry is either an existing reference or a new blob, never both.
type entry struct {
	ref  string
	blob *Blob
}

func (e entry) existing() bool { return e.blob == nil }

// Set is the attachment state of one edit session. Existing entries always
// precede new ones, so the entry order is the order the record will have
// after a successful submission.
//
// A Set is owned by a single session and is not safe for concurrent use.
type Set struct {
	entries []entry
	kept    int
}

// NewSet seeds a Set with the references the store returned for the record.
func NewSet(existing []string) *Set {
	s := &Set{entries: make([]entry, 0, len(existing))}
	for _, ref := range existing {
		s.entries = append(s.entries, entry{ref: ref})
	}
	s.kept = len(existing)
	return s
}

// StageNew appends every blob within MaxBlobSize to the pending track.
// Oversized blobs are skipped and only counted.
func (s *Set) StageNew(blobs []Blob) StageResult {
	var res StageResult
	for i := range blobs {
		if blobs[i].Size() > MaxBlobSize {
			res.Ignored++
			continue
		}
		b := blobs[i]
		s.entries = append(s.entries, entry{blob: &b})
		res.Staged++
	}
	return res
}

// ReplacePending discards the staged blobs and stages blobs instead, as a
// fresh file selection does.
func (s *Set) ReplacePending(blobs []Blob) StageResult {
	s.entries = s.entries[:s.kept]
	return s.StageNew(blobs)
}

// MarkRemoved drops the first existing reference equal to ref. It reports
// whether anything was removed. Pending blobs are never touched.
func (s *Set) MarkRemoved(ref string) bool {
	for i := 0; i < s.kept; i++ {
		if s.entries[i].ref == ref {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.kept--
			return true
		}
	}
	return false
}

// Snapshot returns copies of the kept references and the pending blobs, in order.
func (s *Set) Snapshot() (kept []string, pending []Blob) {
	kept = make([]string, 0, s.kept)
	pending = make([]Blob, 0, len(s.entries)-s.kept)
	for _, e := range s.entries {
		if e.existing() {
			kept = append(kept, e.ref)
		} else {
			pending = append(pending, *e.blob)
		}
	}
	return kept, pending
}

// Len returns the number of attachments the record will have after submission.
func (s *Set) Len() int { return len(s.entries) }

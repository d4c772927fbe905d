package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gridwise/layoutkit/pkg/errors"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a Snapshot to indented JSON bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSnapshotTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes JSON bytes into a validated Snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	return readSnapshotFrom(bytes.NewReader(data))
}

// WriteSnapshotFile writes a Snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeSnapshotTo(s, f)
}

// ReadSnapshotFile reads a JSON file and returns the decoded Snapshot.
// Returns validation errors for malformed graphs or out-of-range edges.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readSnapshotFrom(f)
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader.
// Use ReadSnapshotFile for files or pass bytes.NewReader for in-memory data.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	return readSnapshotFrom(r)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the structural invariants every algorithm relies on:
// node indices in range and sizes, when present, matching the node count.
func (snap *Snapshot) Validate() error {
	if snap.NodeCount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative node count %d", snap.NodeCount)
	}
	for i, e := range snap.Edges {
		if e.From < 0 || e.From >= snap.NodeCount || e.To < 0 || e.To >= snap.NodeCount {
			return errors.New(errors.ErrCodeInvalidInput,
				"edge %d (%d->%d) out of range [0,%d)", i, e.From, e.To, snap.NodeCount)
		}
	}
	if len(snap.Sizes) != 0 && len(snap.Sizes) != snap.NodeCount {
		return errors.New(errors.ErrCodeInvalidInput,
			"%d sizes for %d nodes", len(snap.Sizes), snap.NodeCount)
	}
	return nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeSnapshotTo(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readSnapshotFrom(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	// Hidden tags may arrive unsorted from hand-written files.
	snap.Hidden = NewTagSet(snap.Hidden...)
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

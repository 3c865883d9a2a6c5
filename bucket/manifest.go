package bucket

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dendrascience/zipsort/archive"
)

// Manifest describes the archives written for one organized source.
type Manifest struct {
	Source    string           `json:"source"`
	Format    archive.Format   `json:"format"`
	Stripped  string           `json:"stripped_prefix,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Buckets   []ManifestBucket `json:"buckets"`
}

// ManifestBucket lists the contents of one bucket archive.
type ManifestBucket struct {
	Key     string   `json:"key"`
	Archive string   `json:"archive"`
	Files   []string `json:"files"`
	Bytes   int64    `json:"bytes"`
}

// Manifest describes s as it would be written by EncodeAll with format f.
func (s *Set) Manifest(source string, b Bucketer, f archive.Format) Manifest {
	m := Manifest{
		Source:    source,
		Format:    f,
		Stripped:  b.StripPrefix,
		CreatedAt: time.Now().UTC(),
		Buckets:   make([]ManifestBucket, 0, len(s.buckets)),
	}
	for _, k := range s.Keys() {
		bk := s.buckets[k]
		m.Buckets = append(m.Buckets, ManifestBucket{
			Key:     k,
			Archive: FileName(k, f),
			Files:   bk.Paths(),
			Bytes:   bk.Bytes(),
		})
	}
	return m
}

// Encode writes m as indented JSON.
func (m Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

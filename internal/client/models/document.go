// Package models defines the client-side view of the document-processing
// API resources.
package models

import (
	"path"
	"strings"
	"time"
)

// Status is the processing state reported by the backend. Values outside the
// known set are kept verbatim.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Known reports whether s is one of the statuses the backend documents.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// UnclassifiedLabel is shown when a document has no type yet.
const UnclassifiedLabel = "Unclassified"

// Document is an uploaded file plus what the backend extracted from it.
type Document struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title,omitempty"`
	File          string           `json:"file,omitempty"`
	FilePath      string           `json:"file_path,omitempty"`
	DocumentType  string           `json:"document_type,omitempty"`
	Status        Status           `json:"status"`
	UploadedAt    time.Time        `json:"uploaded_at"`
	ExtractedData []ExtractedField `json:"extracted_data,omitempty"`
}

// DisplayType returns the document type or UnclassifiedLabel.
func (d Document) DisplayType() string {
	if strings.TrimSpace(d.DocumentType) == "" {
		return UnclassifiedLabel
	}
	return d.DocumentType
}

// Name picks the best human label: the title, else the base name of the file
// reference.
func (d Document) Name() string {
	if d.Title != "" {
		return d.Title
	}
	ref := d.File
	if ref == "" {
		ref = d.FilePath
	}
	if ref == "" {
		return ""
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return path.Base(ref)
}

// Field returns the extracted field with the given id.
func (d *Document) Field(id int64) (*ExtractedField, bool) {
	for i := range d.ExtractedData {
		if d.ExtractedData[i].ID == id {
			return &d.ExtractedData[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so snapshots handed to observers stay immutable.
func (d Document) Clone() Document {
	if d.ExtractedData != nil {
		d.ExtractedData = append([]ExtractedField(nil), d.ExtractedData...)
	}
	return d
}

// ExtractedField is one key/value pair extracted from a document. The client
// only edits Value and IsValidated.
type ExtractedField struct {
	ID          int64  `json:"id"`
	Document    int64  `json:"document,omitempty"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	IsValidated bool   `json:"is_validated"`
}

// Stats is the per-user summary served by /stats/.
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	Pending        int `json:"pending"`
	Processing     int `json:"processing"`
	Completed      int `json:"completed"`
	Error          int `json:"error"`
}

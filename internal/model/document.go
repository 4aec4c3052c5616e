package model

// DocumentStatus is the processing state of a document. It is persisted as an integer.
type DocumentStatus int

const (
	StatusPending DocumentStatus = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

var statusNames = map[DocumentStatus]string{
	StatusPending:    "pending",
	StatusProcessing: "processing",
	StatusCompleted:  "completed",
	StatusFailed:     "failed",
}

// String returns the lower-case status name, or "unknown" for values outside the known set.
func (s DocumentStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Known reports whether s is one of the defined statuses.
func (s DocumentStatus) Known() bool {
	_, ok := statusNames[s]
	return ok
}

// Document is a stored file's metadata record.
// It carries no persistence tags; column bindings live in the repository's schema mapping.
type Document struct {
	ID               int64          `json:"id"`
	FileName         string         `json:"file_name"`
	OriginalFileName string         `json:"original_file_name"`
	FileExtension    string         `json:"file_extension"`
	FileSize         int64          `json:"file_size"`
	ContentType      string         `json:"content_type"`
	StoragePath      string         `json:"storage_path"`
	Status           DocumentStatus `json:"status"`
	Summary          *string        `json:"summary,omitempty"`
	UploadedBy       string         `json:"uploaded_by"`
	IsDeleted        bool           `json:"is_deleted"`
}

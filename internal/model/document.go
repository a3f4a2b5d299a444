package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocRequirement  DocumentType = "REQUIREMENT_DOC"
	DocTestCases    DocumentType = "TEST_CASES"
	DocIssueTracker DocumentType = "ISSUE_TRACKER"
	DocUserManual   DocumentType = "USER_MANUAL"
	DocMOU          DocumentType = "MOU"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocRequirement, DocTestCases, DocIssueTracker, DocUserManual, DocMOU:
		return true
	}
	return false
}

// Document is owned by exactly one project or one task, embedded in the
// owner's jsonb document array rather than normalized into its own table.
// The URL is a session-scoped upload handle and may not survive a reload;
// the json tags define the stored shape.
type Document struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	UploadDate time.Time    `json:"upload_date"`
	Size       int64        `json:"size"`
	MimeType   string       `json:"mime_type"`
	URL        string       `json:"url,omitempty"`
}

type DocumentList []Document

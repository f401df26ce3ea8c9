package entity

import (
	"io"
	"time"
)

type DocType string

const (
	DocTypeLabReport       DocType = "Lab Report"
	DocTypeScan            DocType = "Scan"
	DocTypePrescription    DocType = "Prescription"
	DocTypeSystemGenerated DocType = "System Generated"
	DocTypeOther           DocType = "Other"
)

type DocStatus string

const (
	DocStatusPending      DocStatus = "Pending"
	DocStatusDoctorReview DocStatus = "Doctor Review"
	DocStatusApproved     DocStatus = "Approved"
	DocStatusRejected     DocStatus = "Rejected"
)

// IsKnown reports whether s is one of the defined statuses. Unknown statuses are passed through unchanged.
func (s DocStatus) IsKnown() bool {
	switch s {
	case DocStatusPending, DocStatusDoctorReview, DocStatusApproved, DocStatusRejected:
		return true
	default:
		return false
	}
}

type Document struct {
	ID        string
	PatientID string
	DoctorID  string
	Name      string
	Type      DocType
	Status    DocStatus
	CreatedAt time.Time
	URL       string
}

// File is an attachment chosen for upload.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

type NewDocument struct {
	File      *File
	Name      string
	Type      DocType
	PatientID string
	DoctorID  string
	Status    DocStatus
}

// DocumentChanges holds the fields to send on update; nil fields are left untouched.
type DocumentChanges struct {
	Name      *string
	Type      *DocType
	Status    *DocStatus
	PatientID *string
	DoctorID  *string
	File      *File
}

func (c DocumentChanges) IsEmpty() bool {
	return c.Name == nil && c.Type == nil && c.Status == nil && c.PatientID == nil && c.DoctorID == nil && c.File == nil
}

type DownloadInfo struct {
	URL         string
	Filename    string
	ContentType string
}

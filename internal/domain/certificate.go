package domain

import (
	"fmt"
	"strings"
	"time"
)

// CertificateCategory classifies certificates.
type CertificateCategory string

const (
	CertificateCategoryWeb      CertificateCategory = "Web Development"
	CertificateCategoryBackend  CertificateCategory = "Backend"
	CertificateCategoryCloud    CertificateCategory = "Cloud"
	CertificateCategoryDevOps   CertificateCategory = "DevOps"
	CertificateCategoryDatabase CertificateCategory = "Database"
	CertificateCategoryOther    CertificateCategory = "Other"

	DefaultCertificateCategory = CertificateCategoryOther
)

// Valid reports whether c is a known certificate category.
func (c CertificateCategory) Valid() bool {
	switch c {
	case CertificateCategoryWeb, CertificateCategoryBackend, CertificateCategoryCloud,
		CertificateCategoryDevOps, CertificateCategoryDatabase, CertificateCategoryOther:
		return true
	}
	return false
}

// Certificate is a credential earned by the portfolio owner.
type Certificate struct {
	ID             string              `json:"_id"`
	Title          string              `json:"title"`
	Issuer         string              `json:"issuer"`
	IssueDate      time.Time           `json:"issueDate"`
	CredentialID   string              `json:"credentialId,omitempty"`
	CredentialURL  string              `json:"credentialUrl,omitempty"`
	CertificateURL string              `json:"certificateUrl"`
	Description    string              `json:"description,omitempty"`
	Category       CertificateCategory `json:"category"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts the date formats browsers submit from date and datetime inputs.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, value)
}

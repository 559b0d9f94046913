package models

import (
	"strings"
	"time"
)

// Application statuses move through a simple admin-driven lifecycle.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// AllowedStatus reports whether s is a known application status.
func AllowedStatus(s string) bool {
	switch strings.ToLower(s) {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// HighestQualification is the one mandatory education entry on a form.
type HighestQualification struct {
	Type       string `bson:"type" json:"type"`
	School     string `bson:"school" json:"school"`
	Board      string `bson:"board" json:"board"`
	Year       string `bson:"year" json:"year"`
	Percentage string `bson:"percentage" json:"percentage"`
}

type PreviousQualification struct {
	Type       string `bson:"type,omitempty" json:"type,omitempty"`
	School     string `bson:"school,omitempty" json:"school,omitempty"`
	Board      string `bson:"board,omitempty" json:"board,omitempty"`
	Year       string `bson:"year,omitempty" json:"year,omitempty"`
	Percentage string `bson:"percentage,omitempty" json:"percentage,omitempty"`
}

type Educational struct {
	HighestQualification   HighestQualification    `bson:"highestQualification" json:"highestQualification"`
	PreviousQualifications []PreviousQualification `bson:"previousQualifications,omitempty" json:"previousQualifications,omitempty"`
}

type StudyPreferences struct {
	PreferredCountry      string `bson:"preferredCountry,omitempty" json:"preferredCountry,omitempty"`
	PreferredCourse       string `bson:"preferredCourse,omitempty" json:"preferredCourse,omitempty"`
	PreferredIntakeMonth  string `bson:"preferredIntakeMonth,omitempty" json:"preferredIntakeMonth,omitempty"`
	PreferredIntakeYear   string `bson:"preferredIntakeYear,omitempty" json:"preferredIntakeYear,omitempty"`
	DegreeLevel           string `bson:"degreeLevel,omitempty" json:"degreeLevel,omitempty"`
	PreferredUniversities string `bson:"preferredUniversities,omitempty" json:"preferredUniversities,omitempty"`
}

type Scores struct {
	IELTS string `bson:"ielts,omitempty" json:"ielts,omitempty"`
	TOEFL string `bson:"toefl,omitempty" json:"toefl,omitempty"`
	PTE   string `bson:"pte,omitempty" json:"pte,omitempty"`
}

type Certifications struct {
	HasCertifications bool    `bson:"hasCertifications" json:"hasCertifications"`
	Scores            *Scores `bson:"scores,omitempty" json:"scores,omitempty"`
}

type Experience struct {
	JobTitle    string `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	IsRelated   string `bson:"isRelated,omitempty" json:"isRelated,omitempty"`
	CompanyName string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Years       string `bson:"years,omitempty" json:"years,omitempty"`
}

type WorkExperience struct {
	HasExperience bool        `bson:"hasExperience" json:"hasExperience"`
	Experience    *Experience `bson:"experience,omitempty" json:"experience,omitempty"`
}

type FinancialInformation struct {
	EstimatedBudget string `bson:"estimatedBudget,omitempty" json:"estimatedBudget,omitempty"`
	SourceOfFunding string `bson:"sourceOfFunding,omitempty" json:"sourceOfFunding,omitempty"`
}

// Application is a submitted student-application form, stamped with the
// owning user and a generated applicationId.
type Application struct {
	ID                   string                `bson:"_id" json:"-"`
	ApplicationID        string                `bson:"applicationId" json:"applicationId"`
	UserID               string                `bson:"userId" json:"userId"`
	Educational          Educational           `bson:"educational" json:"educational"`
	StudyPreferences     *StudyPreferences     `bson:"studyPreferences,omitempty" json:"studyPreferences,omitempty"`
	Certifications       *Certifications       `bson:"certifications,omitempty" json:"certifications,omitempty"`
	WorkExperience       *WorkExperience       `bson:"workExperience,omitempty" json:"workExperience,omitempty"`
	FinancialInformation *FinancialInformation `bson:"financialInformation,omitempty" json:"financialInformation,omitempty"`
	Status               string                `bson:"status" json:"status"`
	CreatedAt            time.Time             `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time             `bson:"updated_at" json:"updatedAt"`
}

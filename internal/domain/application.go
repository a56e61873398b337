package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CurrentSituation string

const (
	SituationEmployed     CurrentSituation = "employed"
	SituationStudent      CurrentSituation = "student"
	SituationSelfEmployed CurrentSituation = "self_employed"
	SituationOther        CurrentSituation = "other"
)

func (s CurrentSituation) Valid() bool {
	switch s {
	case SituationEmployed, SituationStudent, SituationSelfEmployed, SituationOther:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
)

type ApplicantProfile struct {
	MonthlyIncome    decimal.Decimal  `json:"monthly_income"`
	CurrentSituation CurrentSituation `json:"current_situation"`
	BirthDate        *time.Time       `json:"birth_date,omitempty"`
	Age              int              `json:"age"`
	HasGuarantor     bool             `json:"has_guarantor"`
}

type Application struct {
	ID         int32             `json:"id"`
	PropertyID int32             `json:"property_id"`
	TenantID   int32             `json:"tenant_id"`
	Applicant  ApplicantProfile  `json:"applicant"`
	Message    string            `json:"message"`
	Status     ApplicationStatus `json:"status"`
	CreatedOn  time.Time         `json:"created_on"`
	UpdatedOn  time.Time         `json:"updated_on"`
}

// AgeAt returns the number of full years between birth and at.
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

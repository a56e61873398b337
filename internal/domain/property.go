package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeRoom      PropertyType = "room"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeStudio, PropertyTypeRoom:
		return true
	}
	return false
}

// AgeRange bounds are inclusive and independently optional.
type AgeRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// TenantCriteria holds the landlord's selection constraints. A nil field
// leaves that criterion unconstrained.
type TenantCriteria struct {
	MonthlyIncome     *decimal.Decimal   `json:"monthly_income,omitempty"`
	Status            []CurrentSituation `json:"status,omitempty"`
	AgeRange          *AgeRange          `json:"age_range,omitempty"`
	GuarantorRequired *bool              `json:"guarantor_required,omitempty"`
}

type Property struct {
	ID             int32           `json:"id"`
	OwnerID        int32           `json:"owner_id"`
	TenantID       *int32          `json:"tenant_id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	PostalCode     string          `json:"postal_code"`
	Type           PropertyType    `json:"type"`
	SurfaceM2      int32           `json:"surface_m2"`
	Rooms          int32           `json:"rooms"`
	RentCents      int32           `json:"rent_cents"`
	ChargesCents   int32           `json:"charges_cents"`
	DepositCents   int32           `json:"deposit_cents"`
	Furnished      bool            `json:"furnished"`
	Available      bool            `json:"available"`
	TenantCriteria *TenantCriteria `json:"tenant_criteria,omitempty"`
	CreatedOn      time.Time       `json:"created_on"`
	UpdatedOn      time.Time       `json:"updated_on"`
}

package domain

import "time"

type IncidentStatus string

const (
	IncidentStatusDraft           IncidentStatus = "draft"
	IncidentStatusReported        IncidentStatus = "reported"
	IncidentStatusInCharge        IncidentStatus = "in_charge"
	IncidentStatusInProgress      IncidentStatus = "in_progress"
	IncidentStatusResolved        IncidentStatus = "resolved"
	IncidentStatusCancelledTenant IncidentStatus = "cancelled_tenant"
	IncidentStatusCancelledOwner  IncidentStatus = "cancelled_owner"
	IncidentStatusClosed          IncidentStatus = "closed"
)

// IncidentStatuses lists every status in lifecycle order.
var IncidentStatuses = []IncidentStatus{
	IncidentStatusDraft,
	IncidentStatusReported,
	IncidentStatusInCharge,
	IncidentStatusInProgress,
	IncidentStatusResolved,
	IncidentStatusCancelledTenant,
	IncidentStatusCancelledOwner,
	IncidentStatusClosed,
}

func (s IncidentStatus) Valid() bool {
	for _, st := range IncidentStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type IncidentType string

const (
	IncidentTypePlumbing   IncidentType = "plumbing"
	IncidentTypeElectrical IncidentType = "electrical"
	IncidentTypeHeating    IncidentType = "heating"
	IncidentTypeAppliance  IncidentType = "appliance"
	IncidentTypeStructural IncidentType = "structural"
	IncidentTypePest       IncidentType = "pest"
	IncidentTypeOther      IncidentType = "other"
)

func (t IncidentType) Valid() bool {
	switch t {
	case IncidentTypePlumbing, IncidentTypeElectrical, IncidentTypeHeating, IncidentTypeAppliance,
		IncidentTypeStructural, IncidentTypePest, IncidentTypeOther:
		return true
	}
	return false
}

type IncidentRoom string

const (
	RoomKitchen    IncidentRoom = "kitchen"
	RoomBathroom   IncidentRoom = "bathroom"
	RoomBedroom    IncidentRoom = "bedroom"
	RoomLivingRoom IncidentRoom = "living_room"
	RoomExterior   IncidentRoom = "exterior"
	RoomCommonArea IncidentRoom = "common_area"
	RoomOther      IncidentRoom = "other"
)

func (r IncidentRoom) Valid() bool {
	switch r {
	case RoomKitchen, RoomBathroom, RoomBedroom, RoomLivingRoom, RoomExterior, RoomCommonArea, RoomOther:
		return true
	}
	return false
}

type IncidentPhoto struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type IncidentComment struct {
	ID         string    `json:"id"`
	AuthorID   int32     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type Incident struct {
	ID                 int32             `json:"id"`
	PropertyID         int32             `json:"property_id"`
	TenantID           int32             `json:"tenant_id"`
	Type               IncidentType      `json:"type"`
	Room               IncidentRoom      `json:"room"`
	Status             IncidentStatus    `json:"status"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Photos             []IncidentPhoto   `json:"photos"`
	Comments           []IncidentComment `json:"comments"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	ScheduledDate      *time.Time        `json:"scheduled_date,omitempty"`
	EstimatedCostCents *int32            `json:"estimated_cost_cents,omitempty"`
	Resolution         *string           `json:"resolution,omitempty"`
}

// Clone returns a deep copy so updates never alias the original's slices
// or optional fields.
func (i Incident) Clone() Incident {
	out := i
	if i.Photos != nil {
		out.Photos = append([]IncidentPhoto(nil), i.Photos...)
	}
	if i.Comments != nil {
		out.Comments = append([]IncidentComment(nil), i.Comments...)
	}
	if i.ScheduledDate != nil {
		d := *i.ScheduledDate
		out.ScheduledDate = &d
	}
	if i.EstimatedCostCents != nil {
		c := *i.EstimatedCostCents
		out.EstimatedCostCents = &c
	}
	if i.Resolution != nil {
		r := *i.Resolution
		out.Resolution = &r
	}
	return out
}

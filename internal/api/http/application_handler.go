package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/matching"
	"rentdesk-backend/internal/service"
)

// amount accepts a JSON number or string. Malformed values read as zero.
type amount decimal.Decimal

func (a *amount) UnmarshalJSON(data []byte) error {
	*a = amount(matching.ParseAmount(strings.Trim(string(data), `"`)))
	return nil
}

type submitApplicationRequest struct {
	MonthlyIncome    amount                  `json:"monthly_income"`
	CurrentSituation domain.CurrentSituation `json:"current_situation"`
	BirthDate        string                  `json:"birth_date"`
	Age              int                     `json:"age"`
	HasGuarantor     bool                    `json:"has_guarantor"`
	Message          string                  `json:"message"`
}

func (req submitApplicationRequest) input() (service.SubmitApplicationInput, error) {
	in := service.SubmitApplicationInput{
		Applicant: domain.ApplicantProfile{
			MonthlyIncome:    decimal.Decimal(req.MonthlyIncome),
			CurrentSituation: req.CurrentSituation,
			Age:              req.Age,
			HasGuarantor:     req.HasGuarantor,
		},
		Message: req.Message,
	}
	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return in, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		in.Applicant.BirthDate = &birth
	}
	return in, nil
}

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, domain.UserRoleTenant); err != nil {
		writeError(w, r, err)
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req submitApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.deps.Applications.Submit(r.Context(), currentUserID(r), propertyID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) ListPropertyApplications(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	apps, err := h.deps.Applications.ListForProperty(r.Context(), currentUserID(r), propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *Handler) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.deps.Applications.ListMine(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.deps.Applications.GetApplication(r.Context(), currentUserID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *Handler) EvaluateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.deps.Applications.Evaluate(r.Context(), currentUserID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) AcceptApplication(w http.ResponseWriter, r *http.Request) {
	h.decideApplication(w, r, h.deps.Applications.Accept)
}

func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	h.decideApplication(w, r, h.deps.Applications.Reject)
}

func (h *Handler) CancelApplication(w http.ResponseWriter, r *http.Request) {
	h.decideApplication(w, r, h.deps.Applications.Cancel)
}

type applicationDecision func(ctx context.Context, userID, applicationID int32) (*domain.Application, error)

func (h *Handler) decideApplication(w http.ResponseWriter, r *http.Request, decide applicationDecision) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := decide(r.Context(), currentUserID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

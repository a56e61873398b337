// Package matching scores rental applications against the tenant-selection
// criteria a landlord attached to a property.
package matching

import (
	"strings"

	"github.com/shopspring/decimal"

	"rentdesk-backend/internal/domain"
)

const criteriaCount = 4

// MatchCriteria evaluates the applicant against the property's criteria.
// It is pure and never fails: missing criteria are treated as satisfied.
func MatchCriteria(app *domain.Application, property *domain.Property) domain.MatchingResult {
	if property == nil || property.TenantCriteria == nil || app == nil {
		return domain.MatchingResult{
			Status:  domain.MatchFull,
			Matches: domain.CriteriaMatches{Income: true, Status: true, Age: true, Guarantor: true},
		}
	}

	criteria := property.TenantCriteria
	applicant := app.Applicant

	matches := domain.CriteriaMatches{
		Income:    matchIncome(applicant.MonthlyIncome, criteria.MonthlyIncome),
		Status:    matchSituation(applicant.CurrentSituation, criteria.Status),
		Age:       matchAge(applicant.Age, criteria.AgeRange),
		Guarantor: matchGuarantor(applicant.HasGuarantor, criteria.GuarantorRequired),
	}

	return domain.MatchingResult{
		Status:  aggregate(matches),
		Matches: matches,
	}
}

func matchIncome(income decimal.Decimal, minimum *decimal.Decimal) bool {
	if minimum == nil {
		return true
	}
	return income.GreaterThanOrEqual(*minimum)
}

func matchSituation(situation domain.CurrentSituation, allowed []domain.CurrentSituation) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, s := range allowed {
		if s == situation {
			return true
		}
	}
	return false
}

func matchAge(age int, r *domain.AgeRange) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && age < *r.Min {
		return false
	}
	if r.Max != nil && age > *r.Max {
		return false
	}
	return true
}

// matchGuarantor requires strict equality: an applicant offering a guarantor
// to a property that explicitly does not require one does not match.
func matchGuarantor(hasGuarantor bool, required *bool) bool {
	if required == nil {
		return true
	}
	return hasGuarantor == *required
}

func aggregate(m domain.CriteriaMatches) domain.MatchStatus {
	n := 0
	for _, ok := range []bool{m.Income, m.Status, m.Age, m.Guarantor} {
		if ok {
			n++
		}
	}
	switch {
	case n == criteriaCount:
		return domain.MatchFull
	case n > 0:
		return domain.MatchPartial
	default:
		return domain.MatchNone
	}
}

// ParseAmount parses a user-supplied amount. Malformed or empty input
// yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

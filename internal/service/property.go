package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type propertyService struct {
	propRepo repository.PropertyRepository
	now      func() time.Time
}

func NewPropertyService(propRepo repository.PropertyRepository) PropertyService {
	return &propertyService{propRepo: propRepo, now: time.Now}
}

func (s *propertyService) CreateProperty(ctx context.Context, ownerID int32, property *domain.Property) error {
	logger.EnterMethod("propertyService.CreateProperty", "ownerID", ownerID, "title", property.Title)

	property.OwnerID = ownerID
	property.TenantID = nil
	property.Available = true
	if err := validateProperty(property); err != nil {
		logger.ExitMethodWithError("propertyService.CreateProperty", err)
		return err
	}
	now := s.now()
	property.CreatedOn = now
	property.UpdatedOn = now

	if err := s.propRepo.Create(ctx, property); err != nil {
		logger.ExitMethodWithError("propertyService.CreateProperty", err)
		return err
	}
	logger.ExitMethod("propertyService.CreateProperty", "propertyID", property.ID)
	return nil
}

func (s *propertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, error) {
	return s.propRepo.GetByID(ctx, id)
}

// UpdateProperty replaces the editable fields. Ownership, tenant assignment
// and criteria are managed by their own operations.
func (s *propertyService) UpdateProperty(ctx context.Context, ownerID int32, property *domain.Property) error {
	logger.EnterMethod("propertyService.UpdateProperty", "ownerID", ownerID, "propertyID", property.ID)

	existing, err := s.getOwned(ctx, ownerID, property.ID)
	if err != nil {
		logger.ExitMethodWithError("propertyService.UpdateProperty", err)
		return err
	}
	if err := validateProperty(property); err != nil {
		logger.ExitMethodWithError("propertyService.UpdateProperty", err)
		return err
	}

	property.OwnerID = existing.OwnerID
	property.TenantID = existing.TenantID
	property.TenantCriteria = existing.TenantCriteria
	property.CreatedOn = existing.CreatedOn
	property.UpdatedOn = s.now()
	if existing.TenantID != nil {
		property.Available = false
	}

	if err := s.propRepo.Update(ctx, property, existing.UpdatedOn); err != nil {
		logger.ExitMethodWithError("propertyService.UpdateProperty", err)
		return err
	}
	logger.ExitMethod("propertyService.UpdateProperty", "propertyID", property.ID)
	return nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, ownerID, id int32) error {
	logger.EnterMethod("propertyService.DeleteProperty", "ownerID", ownerID, "propertyID", id)

	existing, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		logger.ExitMethodWithError("propertyService.DeleteProperty", err)
		return err
	}
	if existing.TenantID != nil {
		err := fmt.Errorf("%w: property is currently rented", domain.ErrConflict)
		logger.ExitMethodWithError("propertyService.DeleteProperty", err)
		return err
	}
	if err := s.propRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("propertyService.DeleteProperty", err)
		return err
	}
	logger.ExitMethod("propertyService.DeleteProperty", "propertyID", id)
	return nil
}

func (s *propertyService) ListMyProperties(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	return s.propRepo.ListByOwner(ctx, ownerID)
}

func (s *propertyService) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.propRepo.ListAvailable(ctx, strings.TrimSpace(city), page, pageSize)
}

// SetCriteria replaces the tenant selection criteria. A nil criteria
// removes every constraint.
func (s *propertyService) SetCriteria(ctx context.Context, ownerID, propertyID int32, criteria *domain.TenantCriteria) (*domain.Property, error) {
	logger.EnterMethod("propertyService.SetCriteria", "ownerID", ownerID, "propertyID", propertyID)

	property, err := s.getOwned(ctx, ownerID, propertyID)
	if err != nil {
		logger.ExitMethodWithError("propertyService.SetCriteria", err)
		return nil, err
	}
	if err := validateCriteria(criteria); err != nil {
		logger.ExitMethodWithError("propertyService.SetCriteria", err)
		return nil, err
	}

	loadedOn := property.UpdatedOn
	property.TenantCriteria = criteria
	property.UpdatedOn = s.now()
	if err := s.propRepo.Update(ctx, property, loadedOn); err != nil {
		logger.ExitMethodWithError("propertyService.SetCriteria", err)
		return nil, err
	}
	logger.ExitMethod("propertyService.SetCriteria", "propertyID", propertyID)
	return property, nil
}

// EndTenancy detaches the current tenant and puts the property back on the
// market.
func (s *propertyService) EndTenancy(ctx context.Context, ownerID, propertyID int32) (*domain.Property, error) {
	logger.EnterMethod("propertyService.EndTenancy", "ownerID", ownerID, "propertyID", propertyID)

	property, err := s.getOwned(ctx, ownerID, propertyID)
	if err != nil {
		logger.ExitMethodWithError("propertyService.EndTenancy", err)
		return nil, err
	}
	if property.TenantID == nil {
		err := fmt.Errorf("%w: property has no tenant", domain.ErrInvalidInput)
		logger.ExitMethodWithError("propertyService.EndTenancy", err)
		return nil, err
	}

	loadedOn := property.UpdatedOn
	property.TenantID = nil
	property.Available = true
	property.UpdatedOn = s.now()
	if err := s.propRepo.Update(ctx, property, loadedOn); err != nil {
		logger.ExitMethodWithError("propertyService.EndTenancy", err)
		return nil, err
	}
	logger.ExitMethod("propertyService.EndTenancy", "propertyID", propertyID)
	return property, nil
}

func (s *propertyService) getOwned(ctx context.Context, ownerID, propertyID int32) (*domain.Property, error) {
	return ownedProperty(ctx, s.propRepo, ownerID, propertyID)
}

func ownedProperty(ctx context.Context, repo repository.PropertyRepository, ownerID, propertyID int32) (*domain.Property, error) {
	property, err := repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: not the owner of property %d", domain.ErrUnauthorized, propertyID)
	}
	return property, nil
}

func validateProperty(p *domain.Property) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case strings.TrimSpace(p.Address) == "":
		return fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	case strings.TrimSpace(p.City) == "":
		return fmt.Errorf("%w: city is required", domain.ErrInvalidInput)
	case !p.Type.Valid():
		return fmt.Errorf("%w: unknown property type %q", domain.ErrInvalidInput, p.Type)
	case p.RentCents <= 0:
		return fmt.Errorf("%w: rent must be positive", domain.ErrInvalidInput)
	case p.ChargesCents < 0 || p.DepositCents < 0 || p.SurfaceM2 < 0 || p.Rooms < 0:
		return fmt.Errorf("%w: amounts and sizes cannot be negative", domain.ErrInvalidInput)
	}
	return validateCriteria(p.TenantCriteria)
}

func validateCriteria(c *domain.TenantCriteria) error {
	if c == nil {
		return nil
	}
	if c.MonthlyIncome != nil && c.MonthlyIncome.IsNegative() {
		return fmt.Errorf("%w: minimum income cannot be negative", domain.ErrInvalidInput)
	}
	for _, st := range c.Status {
		if !st.Valid() {
			return fmt.Errorf("%w: unknown situation %q", domain.ErrInvalidInput, st)
		}
	}
	if r := c.AgeRange; r != nil {
		if (r.Min != nil && *r.Min < 0) || (r.Max != nil && *r.Max < 0) {
			return fmt.Errorf("%w: ages cannot be negative", domain.ErrInvalidInput)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("%w: minimum age is greater than maximum age", domain.ErrInvalidInput)
		}
	}
	return nil
}

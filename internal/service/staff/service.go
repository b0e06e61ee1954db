package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
)

type staffServiceImpl struct {
	staffRepo staff.Repository
}

func NewStaffService(staffRepo staff.Repository) staff.Service {
	return &staffServiceImpl{staffRepo: staffRepo}
}

func schoolFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	schoolID, ok := claims["school_id"].(string)
	if !ok || schoolID == "" {
		return "", fmt.Errorf("school_id claim is missing or invalid")
	}

	return schoolID, nil
}

func (s *staffServiceImpl) Create(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	var hireDate *time.Time
	if req.HireDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.HireDate)
		if err == nil {
			hireDate = &parsed
		}
	}

	created, err := s.staffRepo.Create(ctx, staff.Staff{
		SchoolID:   schoolID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		BaseSalary: req.BaseSalary,
		IsActive:   true,
		HireDate:   hireDate,
	})
	if err != nil {
		return staff.StaffResponse{}, err
	}

	return toResponse(created), nil
}

func (s *staffServiceImpl) GetByID(ctx context.Context, id string) (staff.StaffResponse, error) {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	st, err := s.staffRepo.GetByID(ctx, id, schoolID)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	return toResponse(st), nil
}

func (s *staffServiceImpl) List(ctx context.Context, activeOnly bool) ([]staff.StaffResponse, error) {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var (
		members []staff.Staff
	)
	if activeOnly {
		members, err = s.staffRepo.ListActiveBySchool(ctx, schoolID)
	} else {
		members, err = s.staffRepo.ListBySchool(ctx, schoolID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		result = append(result, toResponse(m))
	}
	return result, nil
}

func (s *staffServiceImpl) Update(ctx context.Context, req staff.UpdateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	if err := s.staffRepo.Update(ctx, schoolID, req); err != nil {
		return staff.StaffResponse{}, err
	}

	return s.GetByID(ctx, req.ID)
}

func toResponse(st staff.Staff) staff.StaffResponse {
	var hireDate *string
	if st.HireDate != nil {
		str := st.HireDate.Format("2006-01-02")
		hireDate = &str
	}

	return staff.StaffResponse{
		ID:         st.ID,
		FullName:   st.FullName,
		Email:      st.Email,
		Phone:      st.Phone,
		Position:   st.Position,
		BaseSalary: st.BaseSalary,
		IsActive:   st.IsActive,
		HireDate:   hireDate,
	}
}

package workforce

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeRequest creates or replaces an employee
type EmployeeRequest struct {
	Name          string           `json:"name" binding:"required,min=2,max=100"`
	Email         string           `json:"email" binding:"omitempty,email"`
	Phone         string           `json:"phone" binding:"max=50"`
	Role          string           `json:"role" binding:"max=100"`
	Department    string           `json:"department" binding:"max=100"`
	GithubProfile string           `json:"github_profile" binding:"max=200"`
	Salary        *decimal.Decimal `json:"salary"`
	EmployeeType  string           `json:"employee_type" binding:"omitempty,oneof=EMPLOYEE CONTRACTOR VENDOR FREELANCER"`
	Status        string           `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	HireDate      *time.Time       `json:"hire_date"`
	Notes         string           `json:"notes" binding:"max=2000"`
}

func (r EmployeeRequest) toDetails() workforce.EmployeeDetails {
	return workforce.EmployeeDetails{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Role:          r.Role,
		Department:    r.Department,
		GithubProfile: r.GithubProfile,
		Salary:        r.Salary,
		EmployeeType:  workforce.EmployeeType(r.EmployeeType),
		Status:        workforce.EmployeeStatus(r.Status),
		HireDate:      r.HireDate,
		Notes:         r.Notes,
	}
}

// EmployeeListFilter defines filtering options for employee list queries
type EmployeeListFilter struct {
	Status       string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	EmployeeType string `form:"employee_type" binding:"omitempty,oneof=EMPLOYEE CONTRACTOR VENDOR FREELANCER"`
	Search       string `form:"search"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f EmployeeListFilter) toDomain() workforce.EmployeeFilter {
	df := workforce.EmployeeFilter{Filter: shared.DefaultFilter()}
	if f.Page > 0 {
		df.Page = f.Page
	}
	if f.PageSize > 0 {
		df.PageSize = f.PageSize
	}
	df.OrderBy = "name"
	df.OrderDir = "asc"
	df.Search = f.Search
	if f.Status != "" {
		s := workforce.EmployeeStatus(f.Status)
		df.Status = &s
	}
	if f.EmployeeType != "" {
		t := workforce.EmployeeType(f.EmployeeType)
		df.EmployeeType = &t
	}
	return df
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Role          string           `json:"role,omitempty"`
	Department    string           `json:"department,omitempty"`
	GithubProfile string           `json:"github_profile,omitempty"`
	Salary        *decimal.Decimal `json:"salary,omitempty"`
	EmployeeType  string           `json:"employee_type"`
	Status        string           `json:"status"`
	HireDate      *time.Time       `json:"hire_date,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ToEmployeeResponse converts a domain employee
func ToEmployeeResponse(e *workforce.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		Phone:         e.Phone,
		Role:          e.Role,
		Department:    e.Department,
		GithubProfile: e.GithubProfile,
		Salary:        e.Salary,
		EmployeeType:  string(e.EmployeeType),
		Status:        string(e.Status),
		HireDate:      e.HireDate,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleStylist = "stylist"
)

// StaffRoles may read and manage appointments.
var StaffRoles = []string{RoleAdmin, RoleStylist}

// ValidRole reports whether r is an account role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStylist
}

// WorkHours is a stylist's daily window, HH:MM.
type WorkHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// User models a stylist or administrator account.
type User struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	FirstName    string        `json:"first_name,omitempty"`
	LastName     string        `json:"last_name,omitempty"`
	Specialties  []ServiceCode `json:"specialties,omitempty"`
	WorkDays     []int         `json:"work_days,omitempty"`
	WorkHours    *WorkHours    `json:"work_hours,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

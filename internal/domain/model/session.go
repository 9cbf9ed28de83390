package model

// Role is the caller's permission level.
type Role string

const (
	// RoleAdmin manages catalogue, warehouse and assignments.
	RoleAdmin Role = "admin"
	// RoleDriver claims routes and records sales.
	RoleDriver Role = "driver"
)

// Session carries who is calling and which route context they work in. It is built per
// request and passed explicitly to every operation.
type Session struct {
	UserID  string
	Role    Role
	RouteID string
	TruckID string
	Date    string
}

// IsAdmin reports whether the session has admin rights.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsDriver reports whether the session belongs to a driver.
func (s Session) IsDriver() bool {
	return s.Role == RoleDriver
}

// WithRoute returns a copy of s with non-empty overrides applied.
func (s Session) WithRoute(routeID, truckID, date string) Session {
	if routeID != "" {
		s.RouteID = routeID
	}
	if truckID != "" {
		s.TruckID = truckID
	}
	if date != "" {
		s.Date = date
	}
	return s
}

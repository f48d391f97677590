package domain

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	switch ApprovalStatus(s) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), true
	default:
		return "", false
	}
}

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case ReservationActive, ReservationCancelled, ReservationCompleted:
		return ReservationStatus(s), true
	default:
		return "", false
	}
}

type Office struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"user_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	AddressLine1    string         `json:"address_line1"`
	Lat             float64        `json:"lat"`
	Lng             float64        `json:"lng"`
	PricePerDay     int64          `json:"price_per_day"`
	MonthlyDiscount int            `json:"monthly_discount"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	Hidden          bool           `json:"hidden"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Eager-loaded relations.
	User              *User   `json:"user,omitempty"`
	Tags              []Tag   `json:"tags,omitempty"`
	Images            []Image `json:"images,omitempty"`
	ReservationsCount int64   `json:"reservations_count"`
}

// IsOwner reports whether the given user owns this office.
func (o *Office) IsOwner(userID int64) bool {
	return o.UserID == userID
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	ID       int64  `json:"id"`
	OfficeID int64  `json:"office_id"`
	Path     string `json:"path"`
}

type Reservation struct {
	ID        int64             `json:"id"`
	OfficeID  int64             `json:"office_id"`
	UserID    int64             `json:"user_id"`
	Status    ReservationStatus `json:"status"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Price     int64             `json:"price"`
}

type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

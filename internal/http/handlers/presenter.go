package handlers

import (
	"time"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/internal/geo"
)

// OfficeDTO is the public response shape of an office with its eager-loaded
// relations and the precomputed active-reservation count. DistanceKm is only
// present when the request supplied a query point.
type OfficeDTO struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	AddressLine1      string     `json:"address_line1"`
	Lat               float64    `json:"lat"`
	Lng               float64    `json:"lng"`
	PricePerDay       int64      `json:"price_per_day"`
	MonthlyDiscount   int        `json:"monthly_discount"`
	ApprovalStatus    string     `json:"approval_status"`
	Hidden            bool       `json:"hidden"`
	User              UserDTO    `json:"user"`
	Tags              []TagDTO   `json:"tags"`
	Images            []ImageDTO `json:"images"`
	ReservationsCount int64      `json:"reservations_count"`
	DistanceKm        *float64   `json:"distance_km,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type UserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ImageDTO struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

func toOfficeDTO(o *domain.Office, near *geo.Point) OfficeDTO {
	dto := OfficeDTO{
		ID:                o.ID,
		Title:             o.Title,
		Description:       o.Description,
		AddressLine1:      o.AddressLine1,
		Lat:               o.Lat,
		Lng:               o.Lng,
		PricePerDay:       o.PricePerDay,
		MonthlyDiscount:   o.MonthlyDiscount,
		ApprovalStatus:    string(o.ApprovalStatus),
		Hidden:            o.Hidden,
		Tags:              []TagDTO{},
		Images:            []ImageDTO{},
		ReservationsCount: o.ReservationsCount,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}

	if o.User != nil {
		dto.User = UserDTO{ID: o.User.ID, Name: o.User.Name}
	}
	for _, t := range o.Tags {
		dto.Tags = append(dto.Tags, TagDTO{ID: t.ID, Name: t.Name})
	}
	for _, img := range o.Images {
		dto.Images = append(dto.Images, ImageDTO{ID: img.ID, Path: img.Path})
	}

	if near != nil {
		d := geo.Distance(*near, geo.Point{Lat: o.Lat, Lng: o.Lng})
		dto.DistanceKm = &d
	}

	return dto
}

func toOfficeDTOs(offices []domain.Office, near *geo.Point) []OfficeDTO {
	dtos := make([]OfficeDTO, 0, len(offices))
	for i := range offices {
		dtos = append(dtos, toOfficeDTO(&offices[i], near))
	}
	return dtos
}

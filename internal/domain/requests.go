package domain

import (
	"fmt"
	"strings"
)

type OfficeCreate struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	AddressLine1    string  `json:"address_line1"`
	PricePerDay     int64   `json:"price_per_day"`
	MonthlyDiscount int     `json:"monthly_discount"`
	Tags            []int64 `json:"tags"`
}

func (r *OfficeCreate) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.AddressLine1 = strings.TrimSpace(r.AddressLine1)
	r.Tags = dedupeTagIDs(r.Tags)
}

func (r *OfficeCreate) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if r.AddressLine1 == "" {
		return fmt.Errorf("%w: address_line1 is required", ErrValidation)
	}
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("%w: lat must be between -90 and 90", ErrValidation)
	}
	if r.Lng < -180 || r.Lng > 180 {
		return fmt.Errorf("%w: lng must be between -180 and 180", ErrValidation)
	}
	if r.PricePerDay <= 0 {
		return fmt.Errorf("%w: price_per_day must be positive", ErrValidation)
	}
	if r.MonthlyDiscount < 0 || r.MonthlyDiscount > 90 {
		return fmt.Errorf("%w: monthly_discount must be between 0 and 90", ErrValidation)
	}
	return nil
}

// OfficePatch carries a partial update. Nil fields are left untouched. A
// non-nil Tags slice replaces the office's tag associations wholesale.
type OfficePatch struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	AddressLine1    *string  `json:"address_line1,omitempty"`
	PricePerDay     *int64   `json:"price_per_day,omitempty"`
	MonthlyDiscount *int     `json:"monthly_discount,omitempty"`
	Hidden          *bool    `json:"hidden,omitempty"`
	Tags            *[]int64 `json:"tags,omitempty"`
}

func (p *OfficePatch) Normalize() {
	if p.Tags != nil {
		deduped := dedupeTagIDs(*p.Tags)
		p.Tags = &deduped
	}
}

func (p *OfficePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrValidation)
	}
	if p.AddressLine1 != nil && strings.TrimSpace(*p.AddressLine1) == "" {
		return fmt.Errorf("%w: address_line1 cannot be empty", ErrValidation)
	}
	if p.Lat != nil && (*p.Lat < -90 || *p.Lat > 90) {
		return fmt.Errorf("%w: lat must be between -90 and 90", ErrValidation)
	}
	if p.Lng != nil && (*p.Lng < -180 || *p.Lng > 180) {
		return fmt.Errorf("%w: lng must be between -180 and 180", ErrValidation)
	}
	if p.PricePerDay != nil && *p.PricePerDay <= 0 {
		return fmt.Errorf("%w: price_per_day must be positive", ErrValidation)
	}
	if p.MonthlyDiscount != nil && (*p.MonthlyDiscount < 0 || *p.MonthlyDiscount > 90) {
		return fmt.Errorf("%w: monthly_discount must be between 0 and 90", ErrValidation)
	}
	return nil
}

// DetectChanges lists the fields of o that p would change. Tag replacement
// is reported as "tags" only when the new list differs from the attached
// one. The caller uses this to decide whether the approval status resets:
// any change other than "hidden" sends the office back to pending.
func (p *OfficePatch) DetectChanges(o *Office) []string {
	var changes []string

	if p.Title != nil && *p.Title != o.Title {
		changes = append(changes, "title")
	}
	if p.Description != nil && *p.Description != o.Description {
		changes = append(changes, "description")
	}
	if p.Lat != nil && *p.Lat != o.Lat {
		changes = append(changes, "lat")
	}
	if p.Lng != nil && *p.Lng != o.Lng {
		changes = append(changes, "lng")
	}
	if p.AddressLine1 != nil && *p.AddressLine1 != o.AddressLine1 {
		changes = append(changes, "address_line1")
	}
	if p.PricePerDay != nil && *p.PricePerDay != o.PricePerDay {
		changes = append(changes, "price_per_day")
	}
	if p.MonthlyDiscount != nil && *p.MonthlyDiscount != o.MonthlyDiscount {
		changes = append(changes, "monthly_discount")
	}
	if p.Hidden != nil && *p.Hidden != o.Hidden {
		changes = append(changes, "hidden")
	}
	if p.Tags != nil && !sameTagIDs(*p.Tags, o.Tags) {
		changes = append(changes, "tags")
	}

	return changes
}

// ResetsApproval reports whether the detected change set contains anything
// besides the hidden flag.
func ResetsApproval(changes []string) bool {
	for _, c := range changes {
		if c != "hidden" {
			return true
		}
	}
	return false
}

// sameTagIDs compares the requested ids against the attached tags as sets,
// so a duplicated id in the request cannot mask a real change.
func sameTagIDs(ids []int64, tags []Tag) bool {
	requested := make(map[int64]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	if len(requested) != len(tags) {
		return false
	}
	for _, t := range tags {
		if !requested[t.ID] {
			return false
		}
	}
	return true
}

// dedupeTagIDs drops repeated ids, keeping first-occurrence order. Repeats
// would otherwise trip the unique office/tag association constraint.
func dedupeTagIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

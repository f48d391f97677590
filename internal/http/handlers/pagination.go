package handlers

import (
	"github.com/google/go-querystring/query"

	"github.com/deskhub/offices-api/internal/domain"
)

type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Collection is the envelope of every list endpoint.
type Collection struct {
	Data  any   `json:"data"`
	Meta  Meta  `json:"meta"`
	Links Links `json:"links"`
}

// listParams echoes the accepted filters back into pagination links so a
// client can follow next/prev without rebuilding its query.
type listParams struct {
	UserID    *int64   `url:"user_id,omitempty"`
	VisitorID *int64   `url:"visitor_id,omitempty"`
	Lat       *float64 `url:"lat,omitempty"`
	Lng       *float64 `url:"lng,omitempty"`
	Page      int      `url:"page"`
}

func newCollection(data any, total int64, f domain.OfficeFilter, baseURL, path string) Collection {
	page := f.Page
	if page < 1 {
		page = 1
	}

	lastPage := int((total + domain.PageSize - 1) / domain.PageSize)
	if lastPage < 1 {
		lastPage = 1
	}

	params := listParams{
		UserID:    f.UserID,
		VisitorID: f.VisitorID,
		Page:      page,
	}
	if f.Near != nil {
		lat, lng := f.Near.Lat, f.Near.Lng
		params.Lat = &lat
		params.Lng = &lng
	}

	links := Links{
		First: pageLink(baseURL, path, params, 1),
		Last:  pageLink(baseURL, path, params, lastPage),
	}
	if page > 1 {
		prev := pageLink(baseURL, path, params, page-1)
		links.Prev = &prev
	}
	if page < lastPage {
		next := pageLink(baseURL, path, params, page+1)
		links.Next = &next
	}

	return Collection{
		Data: data,
		Meta: Meta{
			CurrentPage: page,
			PerPage:     domain.PageSize,
			Total:       total,
			LastPage:    lastPage,
		},
		Links: links,
	}
}

func pageLink(baseURL, path string, params listParams, page int) string {
	params.Page = page
	v, err := query.Values(params)
	if err != nil {
		return baseURL + path
	}
	return baseURL + path + "?" + v.Encode()
}

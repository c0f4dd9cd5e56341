package models

import "encoding/json"

// Page is one page of a paginated search response.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	CurrentPage   int  `json:"currentPage"`
	PageSize      int  `json:"pageSize"`
	HasNext       bool `json:"hasNext"`
	HasPrevious   bool `json:"hasPrevious"`
}

// UnmarshalJSON accepts both the backend's SearchResponse field names and the
// Spring Data Page aliases ("number", "size").
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	type raw struct {
		Content       []T  `json:"content"`
		TotalElements int  `json:"totalElements"`
		TotalPages    int  `json:"totalPages"`
		CurrentPage   *int `json:"currentPage"`
		Number        *int `json:"number"`
		PageSize      *int `json:"pageSize"`
		Size          *int `json:"size"`
		HasNext       bool `json:"hasNext"`
		HasPrevious   bool `json:"hasPrevious"`
	}
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	p.Content = r.Content
	if p.Content == nil {
		p.Content = []T{}
	}
	p.TotalElements = r.TotalElements
	p.TotalPages = r.TotalPages
	p.CurrentPage = firstInt(r.CurrentPage, r.Number)
	p.PageSize = firstInt(r.PageSize, r.Size)
	p.HasNext = r.HasNext
	p.HasPrevious = r.HasPrevious
	return nil
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

type VideoSearchRequest struct {
	Query            string           `json:"query"`
	Title            string           `json:"title,omitempty"`
	Genre            string           `json:"genre"`
	Type             VideoType        `json:"type,omitempty"`
	ConversionStatus ConversionStatus `json:"conversionStatus,omitempty"`
	MinLength        *int             `json:"minLength,omitempty"`
	MaxLength        *int             `json:"maxLength,omitempty"`
	UploadedBy       string           `json:"uploadedBy,omitempty"`
	PlaylistID       string           `json:"playlistId,omitempty"`
	SortBy           string           `json:"sortBy"`
	SortDirection    string           `json:"sortDirection"`
	Page             int              `json:"page"`
	Size             int              `json:"size"`
}

type PlaylistSearchRequest struct {
	Query         string `json:"query"`
	Name          string `json:"name,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
	MinVideoCount *int   `json:"minVideoCount,omitempty"`
	MaxVideoCount *int   `json:"maxVideoCount,omitempty"`
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
}

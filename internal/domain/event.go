package domain

import (
	"strings"
	"time"
)

// Event is an invitation. Dates and times are kept as the wire strings
// ("2006-01-02" / "15:04") and validated on the way in; the store keeps them
// as text so a fetched invitation round-trips exactly what was submitted.
type Event struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Owner         string     `json:"-"` // owning username, joined on read
	Title         string     `json:"title"`
	EventDate     string     `json:"event_date"`
	EventTime     string     `json:"event_time"`
	Location      string     `json:"location,omitempty"`
	LocationLat   *float64   `json:"location_lat,omitempty"`
	LocationLng   *float64   `json:"location_lng,omitempty"`
	TemplateType  string     `json:"template_type,omitempty"`
	CustomContent string     `json:"custom_content,omitempty"`
	ShareLink     string     `json:"share_link"`
	ViewCount     int64      `json:"view_count"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (e *Event) IsDeleted() bool {
	return e.DeletedAt != nil
}

func (e *Event) IsOwner(username string) bool {
	return e.Owner == username
}

// EventResponse is the full invitation representation returned to callers.
type EventResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	EventDate     string    `json:"event_date"`
	EventTime     string    `json:"event_time"`
	Location      string    `json:"location,omitempty"`
	LocationLat   *float64  `json:"location_lat,omitempty"`
	LocationLng   *float64  `json:"location_lng,omitempty"`
	TemplateType  string    `json:"template_type,omitempty"`
	CustomContent string    `json:"custom_content,omitempty"`
	ShareLink     string    `json:"share_link"`
	ViewCount     int64     `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		EventDate:     e.EventDate,
		EventTime:     e.EventTime,
		Location:      e.Location,
		LocationLat:   e.LocationLat,
		LocationLng:   e.LocationLng,
		TemplateType:  e.TemplateType,
		CustomContent: e.CustomContent,
		ShareLink:     e.ShareLink,
		ViewCount:     e.ViewCount,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// EventListItem is the light projection used for list views; coordinates and
// custom content are deliberately omitted.
type EventListItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	EventDate string    `json:"event_date"`
	EventTime string    `json:"event_time"`
	Location  string    `json:"location,omitempty"`
	ShareLink string    `json:"share_link"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventCreateRequest struct {
	Title         string   `json:"title"`
	EventDate     string   `json:"event_date"`
	EventTime     string   `json:"event_time"`
	Location      string   `json:"location"`
	LocationLat   *float64 `json:"location_lat"`
	LocationLng   *float64 `json:"location_lng"`
	TemplateType  string   `json:"template_type"`
	CustomContent string   `json:"custom_content"`
}

func (r *EventCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.TemplateType = strings.TrimSpace(r.TemplateType)
}

func (r *EventCreateRequest) Validate() error {
	fields := map[string]string{}
	if r.Title == "" {
		fields["title"] = "title is required"
	} else if len(r.Title) > 100 {
		fields["title"] = "title must be 100 characters or fewer"
	}
	if r.EventDate == "" {
		fields["event_date"] = "event date is required"
	} else if _, err := time.Parse("2006-01-02", r.EventDate); err != nil {
		fields["event_date"] = "event date must be formatted as YYYY-MM-DD"
	}
	if r.EventTime == "" {
		fields["event_time"] = "event time is required"
	} else if _, err := time.Parse("15:04", r.EventTime); err != nil {
		fields["event_time"] = "event time must be formatted as HH:MM"
	}
	if len(r.Location) > 200 {
		fields["location"] = "location must be 200 characters or fewer"
	}
	if len(r.TemplateType) > 50 {
		fields["template_type"] = "template type must be 50 characters or fewer"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// EventUpdateRequest replaces the whitelisted mutable fields. The share link,
// id, owner and view count are never writable through an update.
type EventUpdateRequest struct {
	Title         string   `json:"title"`
	EventDate     string   `json:"event_date"`
	EventTime     string   `json:"event_time"`
	Location      string   `json:"location"`
	LocationLat   *float64 `json:"location_lat"`
	LocationLng   *float64 `json:"location_lng"`
	TemplateType  string   `json:"template_type"`
	CustomContent string   `json:"custom_content"`
}

func (r *EventUpdateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.TemplateType = strings.TrimSpace(r.TemplateType)
}

func (r *EventUpdateRequest) Validate() error {
	create := EventCreateRequest{
		Title:         r.Title,
		EventDate:     r.EventDate,
		EventTime:     r.EventTime,
		Location:      r.Location,
		TemplateType:  r.TemplateType,
		CustomContent: r.CustomContent,
	}
	return create.Validate()
}

package domain

import (
	"net"
	"strings"
	"time"
)

type Attendance string

const (
	Attending    Attendance = "ATTENDING"
	NotAttending Attendance = "NOT_ATTENDING"
)

func ParseAttendance(s string) (Attendance, bool) {
	switch Attendance(s) {
	case Attending, NotAttending:
		return Attendance(s), true
	default:
		return "", false
	}
}

type RSVP struct {
	ID             int64      `json:"id"`
	EventID        int64      `json:"event_id"`
	GuestName      string     `json:"guest_name"`
	Attendance     Attendance `json:"attendance"`
	CompanionCount int        `json:"companion_count"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Message        string     `json:"message,omitempty"`
	IPAddress      string     `json:"-"` // captured for duplicate tracing, not exposed
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type RSVPResponse struct {
	ID             int64      `json:"id"`
	GuestName      string     `json:"guest_name"`
	Attendance     Attendance `json:"attendance"`
	CompanionCount int        `json:"companion_count"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Message        string     `json:"message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (r *RSVP) ToResponse() RSVPResponse {
	return RSVPResponse{
		ID:             r.ID,
		GuestName:      r.GuestName,
		Attendance:     r.Attendance,
		CompanionCount: r.CompanionCount,
		Phone:          r.Phone,
		Email:          r.Email,
		Message:        r.Message,
		CreatedAt:      r.CreatedAt,
	}
}

// RSVPCreateRequest doubles as the update payload; on update only attendance,
// companion count and message are applied.
type RSVPCreateRequest struct {
	GuestName      string     `json:"guest_name"`
	Attendance     Attendance `json:"attendance"`
	CompanionCount *int       `json:"companion_count"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Message        string     `json:"message"`
}

func (r *RSVPCreateRequest) Normalize() {
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
}

func (r *RSVPCreateRequest) Validate() error {
	fields := map[string]string{}
	if r.GuestName == "" {
		fields["guest_name"] = "guest name is required"
	} else if len(r.GuestName) > 50 {
		fields["guest_name"] = "guest name must be 50 characters or fewer"
	}
	if r.Attendance == "" {
		fields["attendance"] = "attendance is required"
	} else if _, ok := ParseAttendance(string(r.Attendance)); !ok {
		fields["attendance"] = "attendance must be ATTENDING or NOT_ATTENDING"
	}
	if r.CompanionCount == nil {
		fields["companion_count"] = "companion count is required"
	} else if *r.CompanionCount < 0 {
		fields["companion_count"] = "companion count must be 0 or greater"
	}
	if len(r.Phone) > 20 {
		fields["phone"] = "phone must be 20 characters or fewer"
	}
	if len(r.Email) > 100 {
		fields["email"] = "email must be 100 characters or fewer"
	}
	if len(r.Message) > 500 {
		fields["message"] = "message must be 500 characters or fewer"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// RequestMeta carries the connection details a guest submission arrived with,
// so the service layer never touches *http.Request directly.
type RequestMeta struct {
	ForwardedFor    string
	ProxyClientIP   string
	WLProxyClientIP string
	RemoteAddr      string
}

// ClientIP picks the best-effort submitter address: the forwarded-for header
// wins, then the two legacy proxy headers, then the raw connection address.
// Values that are empty or literally "unknown" are skipped.
func (m RequestMeta) ClientIP() string {
	if ip := firstForwarded(m.ForwardedFor); usable(ip) {
		return ip
	}
	if usable(m.ProxyClientIP) {
		return strings.TrimSpace(m.ProxyClientIP)
	}
	if usable(m.WLProxyClientIP) {
		return strings.TrimSpace(m.WLProxyClientIP)
	}
	if host, _, err := net.SplitHostPort(m.RemoteAddr); err == nil {
		return host
	}
	return m.RemoteAddr
}

func firstForwarded(xff string) string {
	if idx := strings.Index(xff, ","); idx != -1 {
		xff = xff[:idx]
	}
	return strings.TrimSpace(xff)
}

func usable(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "unknown")
}

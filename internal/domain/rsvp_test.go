package domain

import "testing"

func TestClientIPPrecedence(t *testing.T) {
	cases := []struct {
		name string
		meta RequestMeta
		want string
	}{
		{
			name: "forwarded-for wins",
			meta: RequestMeta{ForwardedFor: "203.0.113.7", ProxyClientIP: "198.51.100.2", RemoteAddr: "192.0.2.1:1234"},
			want: "203.0.113.7",
		},
		{
			name: "first forwarded element",
			meta: RequestMeta{ForwardedFor: "203.0.113.7, 10.0.0.1, 10.0.0.2", RemoteAddr: "192.0.2.1:1234"},
			want: "203.0.113.7",
		},
		{
			name: "unknown forwarded skipped",
			meta: RequestMeta{ForwardedFor: "unknown", ProxyClientIP: "198.51.100.2", RemoteAddr: "192.0.2.1:1234"},
			want: "198.51.100.2",
		},
		{
			name: "wl proxy header third",
			meta: RequestMeta{ForwardedFor: "", ProxyClientIP: " ", WLProxyClientIP: "198.51.100.9", RemoteAddr: "192.0.2.1:1234"},
			want: "198.51.100.9",
		},
		{
			name: "remote addr host without port",
			meta: RequestMeta{RemoteAddr: "192.0.2.1:1234"},
			want: "192.0.2.1",
		},
		{
			name: "remote addr passthrough when unsplittable",
			meta: RequestMeta{RemoteAddr: "192.0.2.1"},
			want: "192.0.2.1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.meta.ClientIP(); got != tc.want {
				t.Errorf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseAttendance(t *testing.T) {
	if _, ok := ParseAttendance("ATTENDING"); !ok {
		t.Error("ATTENDING rejected")
	}
	if _, ok := ParseAttendance("NOT_ATTENDING"); !ok {
		t.Error("NOT_ATTENDING rejected")
	}
	if _, ok := ParseAttendance("maybe"); ok {
		t.Error("maybe accepted")
	}
}

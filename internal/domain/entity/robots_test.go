package entity

import "testing"

func TestRobotsRule_IsPathAllowed(t *testing.T) {
	tests := []struct {
		name string
		rule RobotsRule
		path string
		want bool
	}{
		{
			name: "zero value allows everything",
			rule: RobotsRule{},
			path: "/articles/1",
			want: true,
		},
		{
			name: "bare disallow root blocks whole site",
			rule: RobotsRule{Disallowed: []string{"/"}},
			path: "/articles/1",
			want: false,
		},
		{
			name: "disallow prefix blocks matching path",
			rule: RobotsRule{Disallowed: []string{"/private/"}},
			path: "/private/report",
			want: false,
		},
		{
			name: "disallow prefix does not block other paths",
			rule: RobotsRule{Disallowed: []string{"/private/"}},
			path: "/public/report",
			want: true,
		},
		{
			name: "allow wins over disallow",
			rule: RobotsRule{
				Allowed:    []string{"/private/reports/"},
				Disallowed: []string{"/private/"},
			},
			path: "/private/reports/2024",
			want: true,
		},
		{
			name: "allow wins even when disallow is more specific",
			rule: RobotsRule{
				Allowed:    []string{"/a/"},
				Disallowed: []string{"/a/b/c/"},
			},
			path: "/a/b/c/d",
			want: true,
		},
		{
			name: "empty path treated as root",
			rule: RobotsRule{Disallowed: []string{"/"}},
			path: "",
			want: false,
		},
		{
			name: "empty prefix entries are ignored",
			rule: RobotsRule{Disallowed: []string{""}},
			path: "/anything",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.IsPathAllowed(tt.path); got != tt.want {
				t.Errorf("IsPathAllowed(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRobotsRule_IsEmpty(t *testing.T) {
	empty := RobotsRule{}
	if !empty.IsEmpty() {
		t.Error("zero value should be empty")
	}

	rule := RobotsRule{Disallowed: []string{"/admin/"}}
	if rule.IsEmpty() {
		t.Error("rule with directives should not be empty")
	}
}

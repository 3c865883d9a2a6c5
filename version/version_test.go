package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{name: "no commit", info: Info{Version: "v1.0.0", Commit: "unknown", Date: "unknown"}, want: "v1.0.0"},
		{name: "short commit", info: Info{Version: "v1.0.0", Commit: "abc", Date: "unknown"}, want: "v1.0.0"},
		{name: "commit only", info: Info{Version: "v1.0.0", Commit: "abcdef123456", Date: "unknown"}, want: "v1.0.0 (abcdef1)"},
		{name: "commit and date", info: Info{Version: "v1.0.0", Commit: "abcdef123456", Date: "2025-01-01"}, want: "v1.0.0 (abcdef1, built 2025-01-01)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkerValuesWin(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v2.3.4", "0123456789", "2025-06-01"

	info := GetInfo()
	if info.Version != "v2.3.4" || info.Commit != "0123456789" || info.Date != "2025-06-01" {
		t.Errorf("GetInfo() = %+v", info)
	}
	if info.Package != "zipsort" {
		t.Errorf("Package = %q, want zipsort", info.Package)
	}
}

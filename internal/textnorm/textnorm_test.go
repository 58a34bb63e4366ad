package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "hello world", "hello world"},
		{"accents", "café naïve", "cafe naive"},
		{"quotes", "“it’s”", "\"it's\""},
		{"dashes", "a—b–c", "a-b-c"},
		{"ellipsis", "wait…", "wait..."},
		{"ligature", "ﬁne", "fine"},
		{"nbsp", "a b", "a b"},
		{"whitespace", "  a\t\n b  ", "a b"},
		{"unreadable script", "日本", ""},
		{"mixed", "Zoë 日 said", "Zoe said"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

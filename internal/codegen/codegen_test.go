package codegen

import "testing"

func TestPascalCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"primary button", "PrimaryButton"},
		{"user-avatar", "UserAvatar"},
		{"status_bar/dark", "StatusBarDark"},
		{"PrimaryButton", "PrimaryButton"},
		{"icon 24", "Icon24"},
		{"", "Component"},
		{"---", "Component"},
	}
	for _, c := range cases {
		if got := PascalCase(c.in); got != c.want {
			t.Errorf("PascalCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

package settings

import "testing"

func TestValidColor(t *testing.T) {
	valid := []string{"#1E1E1E", "#ffffff", "#CCFFFFFF", "#00000000"}
	for _, c := range valid {
		if !ValidColor(c) {
			t.Fatalf("expected %q to be valid", c)
		}
	}
	invalid := []string{"", "1E1E1E", "#1E1E1", "#GGGGGG", "#ZZFFFFFF", "#CCFFFFF", "red",
		"# 12345", "#1 2345", "#12345 ", "#FF 12345", "#+12345", " #123456"}
	for _, c := range invalid {
		if ValidColor(c) {
			t.Fatalf("expected %q to be invalid", c)
		}
	}
}

func TestSetRejectsBadColor(t *testing.T) {
	s := Default()
	if err := s.Set("backgroundColor", "blue"); err == nil {
		t.Fatalf("expected error")
	}
	if s.BackgroundColor != "#1E1E1E" {
		t.Fatalf("failed set must keep the old value, got %q", s.BackgroundColor)
	}
	if err := s.Set("defaultheadercolor", "#80ff0000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if s.DefaultHeaderColor != "#80FF0000" {
		t.Fatalf("unexpected header color %q", s.DefaultHeaderColor)
	}
	if err := s.Set("backgroundColor", "#1 2345"); err == nil {
		t.Fatalf("expected embedded space to be rejected")
	}
}

func TestSetAndGet(t *testing.T) {
	s := Default()
	if err := s.Set("fontSize", "18.5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s.Get("fontSize"); v != "18.5" {
		t.Fatalf("expected 18.5, got %s", v)
	}
	if err := s.Set("isRtl", "true"); err != nil || !s.IsRtl {
		t.Fatalf("expected rtl set, err=%v", err)
	}
	if err := s.Set("windowState", "7"); err == nil {
		t.Fatalf("expected window state range error")
	}
	if err := s.Set("nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{BackgroundColor: "oops", DefaultHeaderColor: "#FF 12345", FontSize: -1, WindowState: 9}
	s.Normalize()
	def := Default()
	if s.BackgroundColor != def.BackgroundColor || s.FontSize != def.FontSize || s.WindowState != WindowNormal {
		t.Fatalf("unexpected normalized settings %+v", s)
	}
	if s.DefaultHeaderColor != def.DefaultHeaderColor {
		t.Fatalf("malformed header color should default, got %q", s.DefaultHeaderColor)
	}
}

func TestRGB(t *testing.T) {
	if RGB("#CCFFFFFF") != "#FFFFFF" {
		t.Fatalf("expected alpha dropped")
	}
	if RGB("#123456") != "#123456" {
		t.Fatalf("expected unchanged")
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}

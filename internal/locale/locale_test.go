package locale

import (
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/litescript/ls-celestial/internal/body"
)

func TestNewMatches(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"zh-CN", language.SimplifiedChinese},
		{"zh", language.SimplifiedChinese},
		{"en-US", language.AmericanEnglish},
		{"en_US.UTF-8", language.AmericanEnglish},
		{"en-GB", language.AmericanEnglish},
		{"", language.SimplifiedChinese},
		{"!!", language.SimplifiedChinese},
		{"fr-FR", language.SimplifiedChinese},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := New(tt.in).Tag(); got != tt.want {
				t.Errorf("New(%q).Tag() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateAndTime(t *testing.T) {
	ts := time.Date(2025, time.October, 17, 9, 5, 3, 0, time.UTC)

	zh := New("zh-CN")
	if got, want := zh.Date(ts), "2025年10月17日星期五"; got != want {
		t.Errorf("zh Date = %q, want %q", got, want)
	}
	if got, want := zh.Time(ts), "09:05:03"; got != want {
		t.Errorf("zh Time = %q, want %q", got, want)
	}

	en := New("en-US")
	if got, want := en.Date(ts), "Friday, October 17, 2025"; got != want {
		t.Errorf("en Date = %q, want %q", got, want)
	}
}

func TestDecimal(t *testing.T) {
	f := New("en-US")
	tests := []struct {
		v      float64
		digits int
		want   string
	}{
		{10000, 0, "10,000"},
		{0.5, 5, "0.50000"},
		{1, 2, "1.00"},
	}
	for _, tt := range tests {
		if got := f.Decimal(tt.v, tt.digits); got != tt.want {
			t.Errorf("Decimal(%v, %d) = %q, want %q", tt.v, tt.digits, got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	zh := New("zh-CN")
	en := New("en-US")

	if got := zh.Body(body.Mars); got != "火星" {
		t.Errorf("zh Body(mars) = %q", got)
	}
	if got := en.Body(body.Mars); got != "Mars" {
		t.Errorf("en Body(mars) = %q", got)
	}
	if got := zh.Perspective(body.SouthPole); got != "南极视角" {
		t.Errorf("zh Perspective(south-pole) = %q", got)
	}
	if got := zh.Description(body.Sun); got != "太阳系的中心恒星" {
		t.Errorf("zh Description(sun) = %q", got)
	}
	if got := zh.Label(LiveInfo); got != "实时信息" {
		t.Errorf("zh Label(liveInfo) = %q", got)
	}
	if got := en.Label(Key("nope")); got != "nope" {
		t.Errorf("unknown label = %q, want key echoed", got)
	}

	for _, b := range body.All() {
		for _, f := range []*Formatter{zh, en} {
			if f.Body(b) == "" || f.Description(b) == "" {
				t.Errorf("%v: missing name or description for %v", f.Tag(), b)
			}
		}
	}
	for _, p := range body.Perspectives() {
		if en.Perspective(p) == p.String() {
			t.Errorf("en has no name for %v", p)
		}
	}
}

// Package locale formats the info panel for the supported display
// languages (Simplified Chinese and US English).
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/litescript/ls-celestial/internal/body"
)

// Supported lists the display languages in preference order. The first is
// the fallback.
var Supported = []language.Tag{
	language.SimplifiedChinese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(Supported)

// Key names a UI label.
type Key string

const (
	LiveInfo       Key = "liveInfo"
	Time           Key = "time"
	Perspective    Key = "perspective"
	SelectedBody   Key = "selectedBody"
	RenderParams   Key = "renderParams"
	Radius         Key = "radiusMultiplier"
	Speed          Key = "speedMultiplier"
	JulianDay      Key = "julianDay"
	Running        Key = "running"
	Details        Key = "details"
	Mass           Key = "mass"
	RealRadius     Key = "realRadius"
	OrbitalPeriod  Key = "orbitalPeriod"
	RotationPeriod Key = "rotationPeriod"
	OrbitalRadius  Key = "orbitalRadius"
	Temperature    Key = "surfaceTemperature"
	Rotation       Key = "rotation"
	Debug          Key = "debug"
	Help           Key = "help"
)

type table struct {
	labels       map[Key]string
	bodies       map[body.Body]string
	descriptions map[body.Body]string
	perspectives map[body.Perspective]string
	weekdays     [7]string
}

var zh = table{
	labels: map[Key]string{
		LiveInfo:       "实时信息",
		Time:           "时间",
		Perspective:    "当前视角",
		SelectedBody:   "当前天体",
		RenderParams:   "渲染参数",
		Radius:         "半径倍数",
		Speed:          "速度倍数",
		JulianDay:      "儒略日",
		Running:        "系统运行中",
		Details:        "天体详情",
		Mass:           "质量",
		RealRadius:     "半径",
		OrbitalPeriod:  "公转周期",
		RotationPeriod: "自转周期",
		OrbitalRadius:  "轨道半径",
		Temperature:    "表面温度",
		Rotation:       "自转角",
		Debug:          "调试",
		Help:           "1-4 天体  p 视角  +/- 速度  r 重置  i 详情  D 调试  q 退出",
	},
	bodies: map[body.Body]string{
		body.Moon:  "月球",
		body.Earth: "地球",
		body.Mars:  "火星",
		body.Sun:   "太阳",
	},
	descriptions: map[body.Body]string{
		body.Moon:  "探索地球的天然卫星",
		body.Earth: "我们的蓝色家园",
		body.Mars:  "红色星球的奥秘",
		body.Sun:   "太阳系的中心恒星",
	},
	perspectives: map[body.Perspective]string{
		body.NorthPole: "北极视角",
		body.SouthPole: "南极视角",
		body.Equator:   "赤道视角",
	},
	weekdays: [7]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"},
}

var en = table{
	labels: map[Key]string{
		LiveInfo:       "Live Info",
		Time:           "Time",
		Perspective:    "View",
		SelectedBody:   "Body",
		RenderParams:   "Render Parameters",
		Radius:         "Radius multiplier",
		Speed:          "Speed multiplier",
		JulianDay:      "Julian Day",
		Running:        "System running",
		Details:        "Details",
		Mass:           "Mass",
		RealRadius:     "Radius",
		OrbitalPeriod:  "Orbital period",
		RotationPeriod: "Rotation period",
		OrbitalRadius:  "Orbital radius",
		Temperature:    "Surface temp.",
		Rotation:       "Rotation",
		Debug:          "Debug",
		Help:           "1-4 body  p view  +/- speed  r reset  i details  D debug  q quit",
	},
	bodies: map[body.Body]string{
		body.Moon:  "Moon",
		body.Earth: "Earth",
		body.Mars:  "Mars",
		body.Sun:   "Sun",
	},
	descriptions: map[body.Body]string{
		body.Moon:  "Earth's natural satellite",
		body.Earth: "Our blue home",
		body.Mars:  "Mysteries of the red planet",
		body.Sun:   "The star at the centre of the solar system",
	},
	perspectives: map[body.Perspective]string{
		body.NorthPole: "North Pole",
		body.SouthPole: "South Pole",
		body.Equator:   "Equator",
	},
}

// Formatter renders times, dates, numbers and labels for one language.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	table   *table
}

// New returns a formatter for the closest supported match to locale (a
// BCP 47 tag such as "zh-CN" or "en_US.UTF-8"). Unrecognised input falls
// back to Simplified Chinese.
func New(locale string) *Formatter {
	tag, err := language.Parse(normalize(locale))
	if err != nil {
		tag = Supported[0]
	}
	_, idx, _ := matcher.Match(tag)
	matched := Supported[idx]

	t := &zh
	if matched == language.AmericanEnglish {
		t = &en
	}
	return &Formatter{
		tag:     matched,
		printer: message.NewPrinter(matched),
		table:   t,
	}
}

// normalize strips POSIX suffixes such as ".UTF-8" and converts "_" to "-".
func normalize(s string) string {
	for i, r := range s {
		if r == '.' || r == '@' {
			s = s[:i]
			break
		}
	}
	out := []rune(s)
	for i, r := range out {
		if r == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}

// Tag returns the matched language.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Time formats t as a 24-hour hh:mm:ss clock.
func (f *Formatter) Time(t time.Time) string {
	return t.Format("15:04:05")
}

// Date formats t with year, month, day and weekday.
func (f *Formatter) Date(t time.Time) string {
	if f.table == &en {
		return t.Format("Monday, January 2, 2006")
	}
	return fmt.Sprintf("%d年%d月%d日%s", t.Year(), int(t.Month()), t.Day(), f.table.weekdays[t.Weekday()])
}

// Decimal formats v with exactly digits fraction digits and locale digit
// grouping.
func (f *Formatter) Decimal(v float64, digits int) string {
	return f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

// Label returns the display text for k, or k itself if unknown.
func (f *Formatter) Label(k Key) string {
	if s, ok := f.table.labels[k]; ok {
		return s
	}
	return string(k)
}

// Body returns the display name of b.
func (f *Formatter) Body(b body.Body) string {
	if s, ok := f.table.bodies[b]; ok {
		return s
	}
	return b.String()
}

// Description returns the one-line description of b.
func (f *Formatter) Description(b body.Body) string {
	return f.table.descriptions[b]
}

// Perspective returns the display name of p.
func (f *Formatter) Perspective(p body.Perspective) string {
	if s, ok := f.table.perspectives[p]; ok {
		return s
	}
	return p.String()
}

package state

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/body"
)

// BodyInfo holds free-form descriptive strings for a body. Display only.
type BodyInfo struct {
	Mass               string `yaml:"mass"`
	RealRadius         string `yaml:"realRadius"`
	OrbitalPeriod      string `yaml:"orbitalPeriod"`
	RotationPeriod     string `yaml:"rotationPeriod"`
	OrbitalRadius      string `yaml:"orbitalRadius"`
	SurfaceTemperature string `yaml:"surfaceTemperature"`
}

// StarfieldConfig controls the background star shell.
type StarfieldConfig struct {
	StarCount       int     `yaml:"starCount"`
	StarMinDistance float64 `yaml:"starMinDistance"`
	StarSpread      float64 `yaml:"starSpread"`
	StarMinSize     float64 `yaml:"starMinSize"`
	StarMaxSize     float64 `yaml:"starMaxSize"`
}

// RotationConfig controls drag rotation feel.
type RotationConfig struct {
	DragSpeedFactor float64 `yaml:"dragSpeedFactor"`
	InertiaDamping  float64 `yaml:"inertiaDamping"`
}

// MoonConfig holds the Moon's physical and animation constants.
type MoonConfig struct {
	MoonDistanceMultiplier float64 `yaml:"moonDistanceMultiplier"`
	MoonDistance           float64 `yaml:"moonDistance"`
	MoonRadius             float64 `yaml:"moonRadius"`
	MoonRotationSpeed      float64 `yaml:"moonRotationSpeed"`
	MoonOrbitSpeed         float64 `yaml:"moonOrbitSpeed"`
	BodyInfo               `yaml:",inline"`
}

// EarthConfig holds the Earth's physical and animation constants.
type EarthConfig struct {
	EarthRadius        float64 `yaml:"earthRadius"`
	EarthRotationSpeed float64 `yaml:"earthRotationSpeed"`
	BodyInfo           `yaml:",inline"`
}

// MarsConfig holds Mars' physical and animation constants.
type MarsConfig struct {
	MarsRadius        float64 `yaml:"marsRadius"`
	MarsRotationSpeed float64 `yaml:"marsRotationSpeed"`
	BodyInfo          `yaml:",inline"`
}

// SunConfig holds the Sun's physical and animation constants.
type SunConfig struct {
	SunRadius        float64 `yaml:"sunRadius"`
	SunRotationSpeed float64 `yaml:"sunRotationSpeed"`
	BodyInfo         `yaml:",inline"`
}

// CloudsConfig controls the Earth cloud layer.
type CloudsConfig struct {
	CloudsRotationSpeed float64 `yaml:"cloudsRotationSpeed"`
}

// CursorConfig controls cursor auto-hide.
type CursorConfig struct {
	CursorHideDelay int `yaml:"cursorHideDelay"`
}

// ZoomConfig bounds camera zoom.
type ZoomConfig struct {
	ZoomMin   float64 `yaml:"zoomMin"`
	ZoomMax   float64 `yaml:"zoomMax"`
	ZoomSpeed float64 `yaml:"zoomSpeed"`
}

// PitchConfig bounds camera pitch in radians.
type PitchConfig struct {
	PitchMin float64 `yaml:"pitchMin"`
	PitchMax float64 `yaml:"pitchMax"`
}

// CameraConfig holds projection parameters.
type CameraConfig struct {
	CameraFov  float64 `yaml:"cameraFov"`
	CameraNear float64 `yaml:"cameraNear"`
	CameraFar  float64 `yaml:"cameraFar"`
}

// State is the complete view state tree. YAML keys double as the key
// names accepted by Store.UpdateConfig.
type State struct {
	Debug            bool             `yaml:"debug"`
	Selected         body.Body        `yaml:"selected"`
	ViewPerspective  body.Perspective `yaml:"viewPerspective"`
	RadiusMultiplier float64          `yaml:"radiusMultiplier"`
	SpeedMultiplier  float64          `yaml:"speedMultiplier"`
	Starfield        StarfieldConfig  `yaml:"starfield"`
	Rotation         RotationConfig   `yaml:"rotation"`
	Moon             MoonConfig       `yaml:"moon"`
	Earth            EarthConfig      `yaml:"earth"`
	Mars             MarsConfig       `yaml:"mars"`
	Sun              SunConfig        `yaml:"sun"`
	Clouds           CloudsConfig     `yaml:"clouds"`
	Cursor           CursorConfig     `yaml:"cursor"`
	Zoom             ZoomConfig       `yaml:"zoom"`
	Pitch            PitchConfig      `yaml:"pitch"`
	Camera           CameraConfig     `yaml:"camera"`
}

// Defaults returns the build-time default state.
func Defaults() State {
	return State{
		Debug:            false,
		Selected:         body.Moon,
		ViewPerspective:  body.Equator,
		RadiusMultiplier: 0.0005,
		SpeedMultiplier:  10000,
		Starfield: StarfieldConfig{
			StarCount:       1000,
			StarMinDistance: 5000,
			StarSpread:      10000,
			StarMinSize:     20,
			StarMaxSize:     50,
		},
		Rotation: RotationConfig{
			DragSpeedFactor: 0.002,
			InertiaDamping:  0.95,
		},
		Moon: MoonConfig{
			MoonDistanceMultiplier: 0.000008,
			MoonDistance:           384400,
			MoonRadius:             1737.4,
			MoonRotationSpeed:      astro.AngularSpeed(2_359_200 * time.Second),
			MoonOrbitSpeed:         astro.AngularSpeed(2_359_200 * time.Second),
			BodyInfo: BodyInfo{
				Mass:               "7.342×10²² kg",
				RealRadius:         "1,737.4 km",
				OrbitalPeriod:      "27.32 天",
				RotationPeriod:     "27.32 天",
				OrbitalRadius:      "384,400 km",
				SurfaceTemperature: "-173°C ~ 127°C",
			},
		},
		Earth: EarthConfig{
			EarthRadius:        6378,
			EarthRotationSpeed: astro.AngularSpeed(24 * time.Hour),
			BodyInfo: BodyInfo{
				Mass:               "5.972×10²⁴ kg",
				RealRadius:         "6,371 km",
				OrbitalPeriod:      "365.25 天",
				RotationPeriod:     "23小时56分4秒",
				OrbitalRadius:      "149.6百万 km (1 AU)",
				SurfaceTemperature: "-88°C ~ 58°C",
			},
		},
		Mars: MarsConfig{
			MarsRadius:        3389.5,
			MarsRotationSpeed: astro.AngularSpeed(88_775 * time.Second), // 24.6h sol
			BodyInfo: BodyInfo{
				Mass:               "6.417×10²³ kg",
				RealRadius:         "3,389.5 km",
				OrbitalPeriod:      "687 天",
				RotationPeriod:     "24小时37分",
				OrbitalRadius:      "227.9百万 km (1.52 AU)",
				SurfaceTemperature: "-143°C ~ 35°C",
			},
		},
		Sun: SunConfig{
			SunRadius:        695700,
			SunRotationSpeed: astro.AngularSpeed(600_000 * time.Second), // ~25 day equatorial period, sped up
			BodyInfo: BodyInfo{
				Mass:               "1.989×10³⁰ kg",
				RealRadius:         "695,700 km",
				OrbitalPeriod:      "不适用（银河系公转约2.25亿年）",
				RotationPeriod:     "25-35 天（赤道较快）",
				OrbitalRadius:      "0（太阳系中心）",
				SurfaceTemperature: "5,505°C",
			},
		},
		Clouds: CloudsConfig{
			CloudsRotationSpeed: 0.000005,
		},
		Cursor: CursorConfig{
			CursorHideDelay: 2000,
		},
		Zoom: ZoomConfig{
			ZoomMin:   3,
			ZoomMax:   10,
			ZoomSpeed: 0.01,
		},
		Pitch: PitchConfig{
			PitchMin: -math.Pi / 2,
			PitchMax: math.Pi / 2,
		},
		Camera: CameraConfig{
			CameraFov:  40,
			CameraNear: 0.1,
			CameraFar:  5000 + 10000 + 20,
		},
	}
}

// Validate reports the first value the rest of the program cannot work with.
func (s State) Validate() error {
	if !s.Selected.Valid() {
		return fmt.Errorf("selected: invalid body %q", s.Selected)
	}
	if !s.ViewPerspective.Valid() {
		return fmt.Errorf("viewPerspective: invalid perspective %q", s.ViewPerspective)
	}
	if !positive(s.RadiusMultiplier) {
		return fmt.Errorf("radiusMultiplier must be positive and finite, got %v", s.RadiusMultiplier)
	}
	if !positive(s.SpeedMultiplier) {
		return fmt.Errorf("speedMultiplier must be positive and finite, got %v", s.SpeedMultiplier)
	}
	for _, b := range body.All() {
		c := s.Physical(b)
		if !positive(c.Radius) {
			return fmt.Errorf("%s: radius must be positive and finite, got %v", b, c.Radius)
		}
		if math.IsNaN(c.AngularSpeed) || math.IsInf(c.AngularSpeed, 0) {
			return fmt.Errorf("%s: rotation speed must be finite, got %v", b, c.AngularSpeed)
		}
	}
	if s.Starfield.StarCount < 0 {
		return fmt.Errorf("starfield.starCount must not be negative, got %d", s.Starfield.StarCount)
	}
	return nil
}

// positive reports whether x is a finite number above zero.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// BodyConstants is a uniform view over the per-body records.
type BodyConstants struct {
	AngularSpeed float64 // radians per simulated second
	Radius       float64 // km
	Info         BodyInfo
}

// Physical returns the constants for b. Unknown bodies yield the zero value.
func (s State) Physical(b body.Body) BodyConstants {
	switch b {
	case body.Moon:
		return BodyConstants{AngularSpeed: s.Moon.MoonRotationSpeed, Radius: s.Moon.MoonRadius, Info: s.Moon.BodyInfo}
	case body.Earth:
		return BodyConstants{AngularSpeed: s.Earth.EarthRotationSpeed, Radius: s.Earth.EarthRadius, Info: s.Earth.BodyInfo}
	case body.Mars:
		return BodyConstants{AngularSpeed: s.Mars.MarsRotationSpeed, Radius: s.Mars.MarsRadius, Info: s.Mars.BodyInfo}
	case body.Sun:
		return BodyConstants{AngularSpeed: s.Sun.SunRotationSpeed, Radius: s.Sun.SunRadius, Info: s.Sun.BodyInfo}
	default:
		return BodyConstants{}
	}
}

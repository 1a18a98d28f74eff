package weather

import (
	"encoding/json"
	"sort"
)

// Condition is the top-level meteorological condition of a WeatherCode.
type Condition int

const (
	Clear Condition = iota
	Cloudy
	Fog
	Drizzle
	FreezingDrizzle
	Rain
	FreezingRain
	SnowFall
	SnowGrains
	RainShowers
	SnowShowers
	Thunderstorm
	ThunderstormWithHail
)

// Intensity qualifies drizzle, rain, snow and hail conditions. Conditions
// with only two grades use Light and Heavy.
type Intensity int

const (
	NoIntensity Intensity = iota
	Light
	Moderate
	Heavy
)

// CloudCover qualifies the Cloudy condition.
type CloudCover int

const (
	NoCloudCover CloudCover = iota
	MainlyClear
	PartlyCloudy
	Overcast
)

// Icon keys name a condition family, independent of day or night.
const (
	IconClear        = "clear"
	IconCloudy       = "cloudy"
	IconFoggy        = "foggy"
	IconDrizzle      = "drizzle"
	IconRainy        = "rainy"
	IconSnowfall     = "snowfall"
	IconThunderstorm = "thunderstorm"
)

// WeatherCode is a decoded WMO weather interpretation code as reported by the
// forecast provider. Only values returned by ParseWeatherCode are valid.
type WeatherCode struct {
	code      int
	condition Condition
	intensity Intensity
	cover     CloudCover
	rime      bool
	label     string
}

// weatherCodes is built once at init and only read afterwards.
var weatherCodes = func() map[int]WeatherCode {
	rows := []WeatherCode{
		{code: 0, condition: Clear, label: "Clear sky"},
		{code: 1, condition: Cloudy, cover: MainlyClear, label: "Mainly clear"},
		{code: 2, condition: Cloudy, cover: PartlyCloudy, label: "Partly cloudy"},
		{code: 3, condition: Cloudy, cover: Overcast, label: "Overcast"},
		{code: 45, condition: Fog, label: "Fog"},
		{code: 48, condition: Fog, rime: true, label: "Rime fog"},
		{code: 51, condition: Drizzle, intensity: Light, label: "Light drizzle"},
		{code: 53, condition: Drizzle, intensity: Moderate, label: "Moderate drizzle"},
		{code: 55, condition: Drizzle, intensity: Heavy, label: "Dense drizzle"},
		{code: 56, condition: FreezingDrizzle, intensity: Light, label: "Light freezing drizzle"},
		{code: 57, condition: FreezingDrizzle, intensity: Heavy, label: "Dense freezing drizzle"},
		{code: 61, condition: Rain, intensity: Light, label: "Light rain"},
		{code: 63, condition: Rain, intensity: Moderate, label: "Moderate rain"},
		{code: 65, condition: Rain, intensity: Heavy, label: "Heavy rain"},
		{code: 66, condition: FreezingRain, intensity: Light, label: "Light freezing rain"},
		{code: 67, condition: FreezingRain, intensity: Heavy, label: "Heavy freezing rain"},
		{code: 71, condition: SnowFall, intensity: Light, label: "Light snowfall"},
		{code: 73, condition: SnowFall, intensity: Moderate, label: "Moderate snowfall"},
		{code: 75, condition: SnowFall, intensity: Heavy, label: "Heavy snowfall"},
		{code: 77, condition: SnowGrains, label: "Snow grains"},
		{code: 80, condition: RainShowers, intensity: Light, label: "Light rain showers"},
		{code: 81, condition: RainShowers, intensity: Moderate, label: "Moderate rain showers"},
		{code: 82, condition: RainShowers, intensity: Heavy, label: "Violent rain showers"},
		{code: 85, condition: SnowShowers, intensity: Light, label: "Light snow showers"},
		{code: 86, condition: SnowShowers, intensity: Heavy, label: "Heavy snow showers"},
		{code: 95, condition: Thunderstorm, label: "Thunderstorm"},
		{code: 96, condition: ThunderstormWithHail, intensity: Light, label: "Thunderstorm with slight hail"},
		{code: 99, condition: ThunderstormWithHail, intensity: Heavy, label: "Thunderstorm with heavy hail"},
	}
	m := make(map[int]WeatherCode, len(rows))
	for _, r := range rows {
		m[r.code] = r
	}
	return m
}()

// ParseWeatherCode decodes a provider weather code. ok is false for codes
// outside the supported set.
func ParseWeatherCode(code int) (wc WeatherCode, ok bool) {
	wc, ok = weatherCodes[code]
	return wc, ok
}

// SupportedWeatherCodes returns every decodable code in ascending order.
func SupportedWeatherCodes() []int {
	codes := make([]int, 0, len(weatherCodes))
	for c := range weatherCodes {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

func (w WeatherCode) Code() int { return w.code }
func (w WeatherCode) Condition() Condition { return w.condition }
func (w WeatherCode) Intensity() Intensity { return w.intensity }
func (w WeatherCode) CloudCover() CloudCover { return w.cover }
func (w WeatherCode) IsRimeFog() bool { return w.rime }

// Label returns a human readable description, e.g. "Light rain".
func (w WeatherCode) Label() string { return w.label }

func (w WeatherCode) String() string { return w.label }

// IconKey returns the asset key of the condition family. Rain, freezing rain
// and rain showers share "rainy"; snowfall, snow grains and snow showers
// share "snowfall"; both drizzle kinds share "drizzle".
func (w WeatherCode) IconKey() string {
	return w.condition.Family()
}

// Emoji returns a glyph for the condition. isDay only matters for a clear sky.
// Freezing drizzle is drawn as snow while keeping the drizzle icon key.
func (w WeatherCode) Emoji(isDay bool) string {
	switch w.condition.Family() {
	case IconClear:
		if isDay {
			return "☀️"
		}
		return "🌙"
	case IconCloudy:
		if w.cover == MainlyClear {
			return "🌤️"
		}
		return "🌥️"
	case IconFoggy:
		return "🌫️"
	case IconDrizzle:
		if w.condition == FreezingDrizzle {
			return "🌨️"
		}
		return "🌦️"
	case IconRainy:
		return "🌧️"
	case IconSnowfall:
		if w.condition == SnowGrains {
			return "❄️"
		}
		return "🌨️"
	default:
		return "⛈️"
	}
}

// Family returns the icon key shared by every code of the condition.
func (c Condition) Family() string {
	switch c {
	case Clear:
		return IconClear
	case Cloudy:
		return IconCloudy
	case Fog:
		return IconFoggy
	case Drizzle, FreezingDrizzle:
		return IconDrizzle
	case Rain, FreezingRain, RainShowers:
		return IconRainy
	case SnowFall, SnowGrains, SnowShowers:
		return IconSnowfall
	default:
		return IconThunderstorm
	}
}

func (w WeatherCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code  int    `json:"code"`
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}{w.code, w.label, w.IconKey()})
}

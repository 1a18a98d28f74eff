package weather

import (
	"encoding/json"
	"testing"

	"github.com/tj/assert"
)

func TestSupportedWeatherCodes(t *testing.T) {
	want := []int{0, 1, 2, 3, 45, 48, 51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 71, 73, 75, 77, 80, 81, 82, 85, 86, 95, 96, 99}
	assert.Equal(t, want, SupportedWeatherCodes())

	supported := make(map[int]bool, len(want))
	for _, c := range want {
		supported[c] = true
	}
	for c := -5; c <= 120; c++ {
		wc, ok := ParseWeatherCode(c)
		assert.Equal(t, supported[c], ok, "code %d", c)
		if ok {
			assert.Equal(t, c, wc.Code())
			assert.NotEmpty(t, wc.Label())
		}
	}
}

func TestParseWeatherCodeDeterministic(t *testing.T) {
	for _, c := range SupportedWeatherCodes() {
		a, _ := ParseWeatherCode(c)
		b, _ := ParseWeatherCode(c)
		assert.Equal(t, a, b)
	}
}

func TestWeatherCodeDecoding(t *testing.T) {
	cases := []struct {
		code      int
		condition Condition
		intensity Intensity
		cover     CloudCover
		rime      bool
	}{
		{0, Clear, NoIntensity, NoCloudCover, false},
		{1, Cloudy, NoIntensity, MainlyClear, false},
		{2, Cloudy, NoIntensity, PartlyCloudy, false},
		{3, Cloudy, NoIntensity, Overcast, false},
		{45, Fog, NoIntensity, NoCloudCover, false},
		{48, Fog, NoIntensity, NoCloudCover, true},
		{53, Drizzle, Moderate, NoCloudCover, false},
		{57, FreezingDrizzle, Heavy, NoCloudCover, false},
		{61, Rain, Light, NoCloudCover, false},
		{67, FreezingRain, Heavy, NoCloudCover, false},
		{75, SnowFall, Heavy, NoCloudCover, false},
		{77, SnowGrains, NoIntensity, NoCloudCover, false},
		{82, RainShowers, Heavy, NoCloudCover, false},
		{85, SnowShowers, Light, NoCloudCover, false},
		{95, Thunderstorm, NoIntensity, NoCloudCover, false},
		{96, ThunderstormWithHail, Light, NoCloudCover, false},
		{99, ThunderstormWithHail, Heavy, NoCloudCover, false},
	}

	for _, tc := range cases {
		wc, ok := ParseWeatherCode(tc.code)
		assert.True(t, ok, "code %d", tc.code)
		assert.Equal(t, tc.condition, wc.Condition(), "code %d", tc.code)
		assert.Equal(t, tc.intensity, wc.Intensity(), "code %d", tc.code)
		assert.Equal(t, tc.cover, wc.CloudCover(), "code %d", tc.code)
		assert.Equal(t, tc.rime, wc.IsRimeFog(), "code %d", tc.code)
	}
}

func TestIconKeys(t *testing.T) {
	cases := map[int]string{
		0:  IconClear,
		1:  IconCloudy,
		3:  IconCloudy,
		45: IconFoggy,
		48: IconFoggy,
		51: IconDrizzle,
		56: IconDrizzle,
		61: IconRainy,
		66: IconRainy,
		80: IconRainy,
		71: IconSnowfall,
		77: IconSnowfall,
		86: IconSnowfall,
		95: IconThunderstorm,
		99: IconThunderstorm,
	}
	for code, key := range cases {
		wc, _ := ParseWeatherCode(code)
		assert.Equal(t, key, wc.IconKey(), "code %d", code)
	}
}

func TestDerivationsAgreePerCondition(t *testing.T) {
	families := map[Condition]string{
		Clear:                IconClear,
		Cloudy:               IconCloudy,
		Fog:                  IconFoggy,
		Drizzle:              IconDrizzle,
		FreezingDrizzle:      IconDrizzle,
		Rain:                 IconRainy,
		FreezingRain:         IconRainy,
		RainShowers:          IconRainy,
		SnowFall:             IconSnowfall,
		SnowGrains:           IconSnowfall,
		SnowShowers:          IconSnowfall,
		Thunderstorm:         IconThunderstorm,
		ThunderstormWithHail: IconThunderstorm,
	}

	emojiOf := make(map[Condition]string)
	labels := make(map[string]int)
	for _, c := range SupportedWeatherCodes() {
		wc, ok := ParseWeatherCode(c)
		assert.True(t, ok, "code %d", c)

		family, known := families[wc.Condition()]
		assert.True(t, known, "code %d", c)
		assert.Equal(t, family, wc.IconKey(), "code %d", c)
		assert.Equal(t, wc.Condition().Family(), wc.IconKey(), "code %d", c)

		assert.NotEmpty(t, wc.Label(), "code %d", c)
		assert.Equal(t, wc.Label(), wc.String())
		if prev, dup := labels[wc.Label()]; dup {
			t.Errorf("codes %d and %d share label %q", prev, c, wc.Label())
		}
		labels[wc.Label()] = c

		// Every code of a condition draws the same glyph, except that
		// cloud cover picks between two.
		if wc.Condition() == Cloudy {
			continue
		}
		if want, seen := emojiOf[wc.Condition()]; seen {
			assert.Equal(t, want, wc.Emoji(true), "code %d", c)
		} else {
			emojiOf[wc.Condition()] = wc.Emoji(true)
		}
	}
	assert.Len(t, emojiOf, len(families)-1)
}

func TestEmoji(t *testing.T) {
	sky, _ := ParseWeatherCode(0)
	assert.Equal(t, "☀️", sky.Emoji(true))
	assert.Equal(t, "🌙", sky.Emoji(false))

	mainly, _ := ParseWeatherCode(1)
	assert.Equal(t, "🌤️", mainly.Emoji(true))
	overcast, _ := ParseWeatherCode(3)
	assert.Equal(t, "🌥️", overcast.Emoji(true))

	drizzle, _ := ParseWeatherCode(53)
	assert.Equal(t, "🌦️", drizzle.Emoji(true))
	freezing, _ := ParseWeatherCode(56)
	assert.Equal(t, "🌨️", freezing.Emoji(true))
	assert.Equal(t, IconDrizzle, freezing.IconKey())

	grains, _ := ParseWeatherCode(77)
	assert.Equal(t, "❄️", grains.Emoji(true))
	snow, _ := ParseWeatherCode(73)
	assert.Equal(t, "🌨️", snow.Emoji(true))

	hail, _ := ParseWeatherCode(96)
	assert.Equal(t, "⛈️", hail.Emoji(false))

	// Only a clear sky depends on the time of day.
	for _, c := range SupportedWeatherCodes() {
		if c == 0 {
			continue
		}
		wc, _ := ParseWeatherCode(c)
		assert.Equal(t, wc.Emoji(true), wc.Emoji(false), "code %d", c)
		assert.NotEmpty(t, wc.Emoji(true))
	}
}

func TestWeatherCodeJSON(t *testing.T) {
	wc, _ := ParseWeatherCode(63)
	b, err := json.Marshal(wc)
	assert.NoError(t, err)
	assert.Equal(t, `{"code":63,"label":"Moderate rain","icon":"rainy"}`, string(b))
}

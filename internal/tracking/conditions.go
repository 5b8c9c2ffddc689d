package tracking

import "math/rand/v2"

// Traffic congestion levels, ordered from free-flowing to jammed.
const (
	TrafficLight    = "light"
	TrafficModerate = "moderate"
	TrafficHeavy    = "heavy"
)

// Weather conditions affecting delivery speed.
const (
	WeatherClear  = "clear"
	WeatherCloudy = "cloudy"
	WeatherRain   = "rain"
	WeatherStorm  = "storm"
)

// TrafficConditions is the simulated congestion around the delivery route.
// SpeedFactor scales the agent's base speed: 1.0 is unobstructed, lower is
// slower.
type TrafficConditions struct {
	Level       string
	SpeedFactor float64
}

// WeatherConditions is the simulated weather along the delivery route.
// Impact scales the agent's base speed the same way SpeedFactor does.
type WeatherConditions struct {
	Condition    string
	TemperatureC float64
	Impact       float64
}

// newTrafficConditions rolls initial congestion.
func newTrafficConditions(rng *rand.Rand) TrafficConditions {
	switch rng.IntN(3) {
	case 0:
		return TrafficConditions{Level: TrafficLight, SpeedFactor: 1.0}
	case 1:
		return TrafficConditions{Level: TrafficModerate, SpeedFactor: 0.75}
	default:
		return TrafficConditions{Level: TrafficHeavy, SpeedFactor: 0.5}
	}
}

// newWeatherConditions rolls initial weather.
func newWeatherConditions(rng *rand.Rand) WeatherConditions {
	temperature := 10 + rng.Float64()*20
	switch rng.IntN(4) {
	case 0:
		return WeatherConditions{Condition: WeatherClear, TemperatureC: temperature, Impact: 1.0}
	case 1:
		return WeatherConditions{Condition: WeatherCloudy, TemperatureC: temperature, Impact: 0.95}
	case 2:
		return WeatherConditions{Condition: WeatherRain, TemperatureC: temperature, Impact: 0.8}
	default:
		return WeatherConditions{Condition: WeatherStorm, TemperatureC: temperature, Impact: 0.6}
	}
}

// drift nudges the congestion by one level in a random direction.
// Most ticks leave the level unchanged.
func (t TrafficConditions) drift(rng *rand.Rand) TrafficConditions {
	if rng.Float64() > 0.2 {
		return t
	}

	levels := []TrafficConditions{
		{Level: TrafficLight, SpeedFactor: 1.0},
		{Level: TrafficModerate, SpeedFactor: 0.75},
		{Level: TrafficHeavy, SpeedFactor: 0.5},
	}

	current := 0
	for i, level := range levels {
		if level.Level == t.Level {
			current = i
		}
	}

	if rng.IntN(2) == 0 && current > 0 {
		return levels[current-1]
	}
	if current < len(levels)-1 {
		return levels[current+1]
	}
	return t
}

// drift perturbs the temperature slightly and occasionally rerolls
// the condition entirely.
func (w WeatherConditions) drift(rng *rand.Rand) WeatherConditions {
	w.TemperatureC += (rng.Float64() - 0.5) * 0.5
	if rng.Float64() < 0.05 {
		fresh := newWeatherConditions(rng)
		fresh.TemperatureC = w.TemperatureC
		return fresh
	}
	return w
}

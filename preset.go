package motive

import (
	"fmt"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// curveSpec is the YAML shape of one named curve preset.
type curveSpec struct {
	Type            string    `yaml:"type"` // "ease", "bezier", or "spring"
	Duration        float64   `yaml:"duration"`
	Func            string    `yaml:"func"`
	Speed           float64   `yaml:"speed"`
	Points          []float64 `yaml:"points"` // bezier control points [x1, y1, x2, y2]
	Response        float64   `yaml:"response"`
	DampingFraction float64   `yaml:"dampingFraction"`
	Stiffness       float64   `yaml:"stiffness"`
	Damping         float64   `yaml:"damping"`
	Mass            float64   `yaml:"mass"`
}

type presetFile struct {
	Curves map[string]curveSpec `yaml:"curves"`
}

// LoadCurves parses a YAML preset document into named curves:
//
//	curves:
//	  fadeIn:  {type: ease, duration: 0.25, func: outQuad}
//	  appear:  {type: bezier, duration: 0.3, points: [0.25, 0.1, 0.25, 1.0]}
//	  pop:     {type: spring, response: 0.4, dampingFraction: 0.7}
//
// Invalid parameters surface as a *ConfigurationError wrapped with the
// preset name; nothing is clamped.
func LoadCurves(data []byte) (map[string]Curve, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("motive: parsing curve presets: %w", err)
	}
	out := make(map[string]Curve, len(file.Curves))
	for name, spec := range file.Curves {
		c, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("motive: preset %q: %w", name, err)
		}
		out[name] = c
	}
	return out, nil
}

func (spec curveSpec) build() (Curve, error) {
	switch spec.Type {
	case "ease", "":
		fn, err := EaseFunc(spec.Func)
		if err != nil {
			return nil, err
		}
		c, err := Ease(spec.Duration, fn)
		if err != nil {
			return nil, err
		}
		if spec.Speed != 0 {
			return c.WithSpeed(spec.Speed)
		}
		return c, nil
	case "bezier":
		if len(spec.Points) != 4 {
			return nil, &ConfigurationError{Field: "points", Value: float64(len(spec.Points)), Reason: "bezier needs exactly 4 control values"}
		}
		fn, err := Bezier(spec.Points[0], spec.Points[1], spec.Points[2], spec.Points[3])
		if err != nil {
			return nil, err
		}
		c, err := Ease(spec.Duration, fn)
		if err != nil {
			return nil, err
		}
		if spec.Speed != 0 {
			return c.WithSpeed(spec.Speed)
		}
		return c, nil
	case "spring":
		if spec.Stiffness != 0 || spec.Damping != 0 || spec.Mass != 0 {
			mass := spec.Mass
			if mass == 0 {
				mass = 1
			}
			return SpringPhysics(spec.Stiffness, spec.Damping, mass)
		}
		return Spring(spec.Response, spec.DampingFraction)
	default:
		return nil, fmt.Errorf("unknown curve type %q", spec.Type)
	}
}

// EaseFunc resolves a gween easing function by its conventional camel-case
// name ("outBounce", "inOutSine", ...). An empty name is linear.
func EaseFunc(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easeFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown ease function %q", name)
	}
	return fn, nil
}

var easeFuncs = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inQuint":      ease.InQuint,
	"outQuint":     ease.OutQuint,
	"inOutQuint":   ease.InOutQuint,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
}

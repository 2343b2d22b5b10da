package fixtures

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/diwise/explorable/pkg/explorable"
)

var ErrUnknownKind = errors.New("unknown kind")
var ErrBadValue = errors.New("bad value")

type factoryFunc func(values map[string]any) (explorable.Explorer, error)

var factories = map[string]factoryFunc{
	"pair": func(values map[string]any) (explorable.Explorer, error) {
		foo, bar, err := twoStrings(values, "foo", "bar")
		if err != nil {
			return nil, err
		}
		return NewPair(foo, bar), nil
	},
	"discoverable": func(values map[string]any) (explorable.Explorer, error) {
		d := NewDiscoverable()

		_, hasDit := values["dit"]
		_, hasDat := values["dat"]
		if !hasDit && !hasDat {
			return d, nil
		}

		dit, err := intValue(values, "dit")
		if err != nil {
			return nil, err
		}
		dat, err := intValue(values, "dat")
		if err != nil {
			return nil, err
		}

		d.Populate(dit, dat)
		return d, nil
	},
	"set-once": func(values map[string]any) (explorable.Explorer, error) {
		s := NewSetOnce()
		for _, name := range s.Names() {
			if value, ok := values[name]; ok {
				if err := s.Set(name, value); err != nil {
					return nil, err
				}
			}
		}
		return s, nil
	},
	"extension": func(values map[string]any) (explorable.Explorer, error) {
		foo, bar, err := twoStrings(values, "foo", "bar")
		if err != nil {
			return nil, err
		}
		baz, err := stringValue(values, "baz")
		if err != nil {
			return nil, err
		}
		return NewExtension(foo, bar, baz), nil
	},
	"reading": func(values map[string]any) (explorable.Explorer, error) {
		sensor, unit, err := twoStrings(values, "sensor", "unit")
		if err != nil {
			return nil, err
		}

		var position *Position
		if _, ok := values["lat"]; ok {
			lat, err := floatValue(values, "lat")
			if err != nil {
				return nil, err
			}
			lon, err := floatValue(values, "lon")
			if err != nil {
				return nil, err
			}
			position = NewPosition(lat, lon)
		}

		if _, ok := values["value"]; !ok {
			return NewPendingReading(sensor, unit, position), nil
		}

		value, err := floatValue(values, "value")
		if err != nil {
			return nil, err
		}

		return NewReading(sensor, value, unit, position), nil
	},
}

// Kinds returns the kinds New knows how to build, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// New builds a fixture of the given kind from loosely typed values, as found
// in a decoded configuration file.
func New(kind string, values map[string]any) (explorable.Explorer, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("cannot create %q: %w", kind, ErrUnknownKind)
	}

	if values == nil {
		values = map[string]any{}
	}

	return factory(values)
}

func stringValue(values map[string]any, key string) (string, error) {
	v, ok := values[key]
	if !ok {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, not %T: %w", key, v, ErrBadValue)
	}

	return s, nil
}

func twoStrings(values map[string]any, first, second string) (string, string, error) {
	a, err := stringValue(values, first)
	if err != nil {
		return "", "", err
	}

	b, err := stringValue(values, second)
	if err != nil {
		return "", "", err
	}

	return a, b, nil
}

func floatValue(values map[string]any, key string) (float64, error) {
	switch v := values[key].(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number, not %T: %w", key, v, ErrBadValue)
	}
}

func intValue(values map[string]any, key string) (int, error) {
	f, err := floatValue(values, key)
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be a whole number: %w", key, ErrBadValue)
	}

	return int(f), nil
}

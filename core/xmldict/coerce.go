package xmldict

import (
	"strconv"
	"strings"

	"github.com/osmforge/osmxml/core/errors"
)

// Type coercion is driven purely by the attribute or element name. The key
// sets below match the schema of OSM API payloads.

var boolKeys = map[string]struct{}{
	"open":    {},
	"pending": {},
	"visible": {},
}

var floatKeys = map[string]struct{}{
	"ele":     {},
	"lat":     {},
	"lon":     {},
	"max_lat": {},
	"max_lon": {},
	"min_lat": {},
	"min_lon": {},
}

var intKeys = map[string]struct{}{
	"changes_count":  {},
	"changeset":      {},
	"comments_count": {},
	"id":             {},
	"num_changes":    {},
	"ref":            {},
	"uid":            {},
}

var dateKeys = map[string]struct{}{
	"closed_at":  {},
	"created_at": {},
	"date":       {},
	"time":       {},
	"timestamp":  {},
	"updated_at": {},
}

// coerce converts raw text into a typed scalar according to the key it is
// stored under. Keys outside the coercion tables pass through as strings.
func (o *Options) coerce(key, raw string) (*Value, error) {
	if _, ok := boolKeys[key]; ok {
		switch raw {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return nil, errors.NewInvalidFormat(key, raw, nil)
		}
	}

	if _, ok := floatKeys[key]; ok {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.NewInvalidFormat(key, raw, err)
		}
		return Float(f), nil
	}

	if _, ok := intKeys[key]; ok {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.NewInvalidFormat(key, raw, err)
		}
		return Int(i), nil
	}

	if key == "version" {
		if strings.Contains(raw, ".") {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.NewInvalidFormat(key, raw, err)
			}
			return Float(f), nil
		}
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.NewInvalidFormat(key, raw, err)
		}
		return Int(i), nil
	}

	if _, ok := dateKeys[key]; ok {
		parser := o.ISODates
		if strings.Contains(raw, " ") {
			parser = o.SpacedDates
		}
		t, err := parser(raw)
		if err != nil {
			return nil, errors.NewInvalidFormat(key, raw, err)
		}
		return Time(t), nil
	}

	return Str(raw), nil
}

package event

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Normalize maps a provider object into the canonical Event. Missing fields become "".
//
// The id prefers stable values (id, @id, url) so repeated fetches of the same item
// keep the same id; only when none is present is a random token generated.
func Normalize(raw map[string]any) Event {
	startDate := pickStr(raw, "startDate")
	datePart, timePart, _ := strings.Cut(startDate, "T")

	e := Event{
		ID:          pickStr(raw, "id", "@id", "url"),
		Title:       pickStr(raw, "title", "name"),
		Date:        pickStr(raw, "date"),
		Time:        pickStr(raw, "time"),
		Venue:       venueOf(raw),
		Category:    pickStr(raw, "category", "eventStatus"),
		Description: pickStr(raw, "description", "info"),
		Image:       imageOf(raw),
		URL:         pickStr(raw, "url"),
		Price:       priceOf(raw),
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date == "" {
		e.Date = strings.TrimSpace(datePart)
	}
	if e.Time == "" && len(timePart) >= 5 {
		e.Time = timePart[:5]
	}
	return e
}

// ToRaw converts an Event back into the raw map shape accepted by Normalize.
func ToRaw(e Event) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"title":       e.Title,
		"date":        e.Date,
		"time":        e.Time,
		"venue":       e.Venue,
		"category":    e.Category,
		"description": e.Description,
		"image":       e.Image,
		"url":         e.URL,
		"price":       e.Price,
	}
}

func venueOf(raw map[string]any) string {
	if v := pickStr(raw, "venue"); v != "" {
		return v
	}
	if venue := firstObject(raw["venue"]); venue != nil {
		if name := pickStr(venue, "name"); name != "" {
			return name
		}
	}
	if location := firstObject(raw["location"]); location != nil {
		return pickStr(location, "name")
	}
	return pickStr(raw, "location")
}

func imageOf(raw map[string]any) string {
	switch img := raw["image"].(type) {
	case string:
		return strings.TrimSpace(img)
	case []any:
		for _, item := range img {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
			if m, ok := item.(map[string]any); ok {
				if u := pickStr(m, "url"); u != "" {
					return u
				}
			}
		}
	case map[string]any:
		return pickStr(img, "url")
	}
	return ""
}

func priceOf(raw map[string]any) string {
	if p := pickStr(raw, "price"); p != "" {
		return p
	}
	offers := firstObject(raw["offers"])
	if offers == nil {
		return ""
	}
	price := pickStr(offers, "price", "lowPrice")
	if price == "" {
		return ""
	}
	if currency := pickStr(offers, "priceCurrency"); currency != "" {
		return price + " " + currency
	}
	return price
}

// pickStr returns the first non-empty string (or number) found under keys.
func pickStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			s = strconv.Itoa(val)
		case int64:
			s = strconv.FormatInt(val, 10)
		case json.Number:
			s = val.String()
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// firstObject returns v as an object, or the first object of an array.
func firstObject(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

package events

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Filters narrow an event listing. From and To are inclusive bounds on the
// event time; either may be nil. The include flags opt in to moderation
// states that default listings hide.
type Filters struct {
	CategoryID        int
	From              *time.Time
	To                *time.Time
	IncludeUnapproved bool
	IncludeBlocked    bool
}

func ParseFilters(values url.Values) (Filters, error) {
	filters := Filters{}

	if raw := strings.TrimSpace(values.Get("categoryId")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return filters, FieldError{Field: "categoryId", Message: "must be a positive integer"}
		}
		filters.CategoryID = parsed
	}

	from, err := parseOptionalTime("from", values.Get("from"))
	if err != nil {
		return filters, err
	}
	to, err := parseOptionalTime("to", values.Get("to"))
	if err != nil {
		return filters, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return filters, FieldError{Field: "to", Message: "must be on or after from"}
	}
	filters.From = from
	filters.To = to

	filters.IncludeUnapproved, err = parseFlag("includeUnapproved", values.Get("includeUnapproved"))
	if err != nil {
		return filters, err
	}
	filters.IncludeBlocked, err = parseFlag("includeBlocked", values.Get("includeBlocked"))
	if err != nil {
		return filters, err
	}

	return filters, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(field string, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, FieldError{Field: field, Message: "must be a valid timestamp"}
}

func parseOptionalTime(field string, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := parseTime(field, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseFlag(field string, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, FieldError{Field: field, Message: "must be a boolean"}
	}
	return parsed, nil
}

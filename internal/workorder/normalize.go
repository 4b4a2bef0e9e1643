package workorder

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"woingest/internal/util"
)

const (
	legacyLayout = "2-Jan-06 15:04:05"
	isoLayout    = "2006-01-02T15:04:05"
	isoLayoutUs  = "2006-01-02T15:04:05.000000"

	additionalProductType = "Adicional"
	defaultStatusCode     = 200
)

var textDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLegacyDateTime converts "DD-Mon-YY HH:MM:SS" text to a naive ISO-8601
// timestamp. Empty text is nil.
func ParseLegacyDateTime(text string) (*string, error) {
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(legacyLayout, text)
	if err != nil {
		return nil, &FormatError{Column: -1, Value: text, Reason: "expected DD-Mon-YY HH:MM:SS", Err: err}
	}
	return util.StringPtr(formatISO(t)), nil
}

// ISOFromDateValue converts a decoded date cell. The decoder hands over the
// stored value, which is an Excel serial for real date cells and text for
// dates typed in as strings. Blank and not-a-value markers are nil.
func ISOFromDateValue(raw string, date1904 bool) (*string, error) {
	raw = strings.TrimSpace(raw)
	if isNotAValue(raw) {
		return nil, nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return nil, &FormatError{Column: -1, Value: raw, Reason: "invalid date serial", Err: err}
		}
		return util.StringPtr(formatISO(t)), nil
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return util.StringPtr(formatISO(wallClock(t))), nil
		}
	}
	return nil, &FormatError{Column: -1, Value: raw, Reason: "not a date"}
}

// StripIdentifierMarker drops the one-character marker in front of hex and
// planning ids. Absent values and the literal "nan" are nil.
func StripIdentifierMarker(text string, present bool) *string {
	if !present || text == "nan" {
		return nil
	}
	if text == "" {
		return util.StringPtr("")
	}
	_, size := utf8.DecodeRuneInString(text)
	return util.StringPtr(text[size:])
}

// StatusTable maps raw work-order statuses to API status codes.
// Unknown statuses fall back to 200.
// TODO: fill in once the status taxonomy is agreed with the API owners.
type StatusTable map[string]int

var DefaultStatusTable = StatusTable{}

func (t StatusTable) Code(raw string) int {
	if code, ok := t[strings.TrimSpace(raw)]; ok {
		return code
	}
	return defaultStatusCode
}

func MapStatusCode(raw string) int {
	return DefaultStatusTable.Code(raw)
}

func ProductType(raw string) int {
	if raw == additionalProductType {
		return 2
	}
	return 1
}

func formatISO(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(isoLayoutUs)
	}
	return t.Format(isoLayout)
}

// wallClock drops the zone while keeping the clock reading.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func isNotAValue(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "nan", "nat", "none", "null":
		return true
	}
	return false
}

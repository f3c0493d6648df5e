// Package format renders money, counts and dates the way the shop's
// staff read them: Indonesian digit grouping and month names.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Number formats n with Indonesian thousand separators ("1.250.000")
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Rupiah formats an amount in whole rupiah ("Rp 1.250.000")
func Rupiah(amount int64) string {
	if amount < 0 {
		return "-Rp " + Number(-amount)
	}
	return "Rp " + Number(amount)
}

// ShortRupiah abbreviates large amounts for narrow columns ("Rp1,3jt")
func ShortRupiah(amount int64) string {
	const million = 1_000_000
	if amount < million && amount > -million {
		return Rupiah(amount)
	}
	v := math.Round(float64(amount)/million*10) / 10
	return "Rp" + strings.Replace(fmt.Sprintf("%.1f", v), ".", ",", 1) + "jt"
}

// Percent formats a signed trend ("+12,5%", "-3,0%")
func Percent(p float64) string {
	s := strings.Replace(fmt.Sprintf("%.1f", math.Abs(p)), ".", ",", 1)
	if p < 0 {
		return "-" + s + "%"
	}
	return "+" + s + "%"
}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// LongDate formats t as "18 Oktober 2026"
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// ShortDate formats t as "18 Okt 2026"
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), months[t.Month()-1][:3], t.Year())
}

// Timestamp renders a backend timestamp in local time, or the raw value
// if it cannot be parsed
func Timestamp(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return ShortDate(t.Local()) + " " + t.Local().Format("15:04")
		}
	}
	return raw
}

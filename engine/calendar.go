package engine

import (
	"fmt"
	"time"
)

// WeekdayLabels holds short day names indexed Monday=0 .. Sunday=6.
var WeekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayIndex returns the ISO weekday of t with Monday=0.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Key encodes the date as yyyymmdd, which orders the same way dates do.
func (d Date) Key() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// DateFromKey is the inverse of Date.Key.
func DateFromKey(key int) Date {
	return Date{Year: key / 10000, Month: time.Month(key / 100 % 100), Day: key % 100}
}

func (d Date) Before(other Date) bool {
	return d.Key() < other.Key()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ISOWeek identifies an ISO-8601 week.
type ISOWeek struct {
	Week int `json:"week"`
	Year int `json:"year"`
}

// Previous steps back one week. Every year is treated as having 52 weeks, so
// week 53 of a long ISO year is never produced.
func (w ISOWeek) Previous() ISOWeek {
	if w.Week > 1 {
		return ISOWeek{Week: w.Week - 1, Year: w.Year}
	}
	return ISOWeek{Week: 52, Year: w.Year - 1}
}

func (w ISOWeek) after(other ISOWeek) bool {
	if w.Year != other.Year {
		return w.Year > other.Year
	}
	return w.Week > other.Week
}

// RecentISOWeeks returns n weeks starting at from and walking backwards.
func RecentISOWeeks(from ISOWeek, n int) []ISOWeek {
	weeks := make([]ISOWeek, 0, n)
	w := from
	for i := 0; i < n; i++ {
		weeks = append(weeks, w)
		w = w.Previous()
	}
	return weeks
}

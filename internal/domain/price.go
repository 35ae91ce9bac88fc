package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is the closing price of an asset on a trading day
type PricePoint struct {
	Date  time.Time       `msgpack:"d"`
	Price decimal.Decimal `msgpack:"p"`
}

// DividendEvent is a cash dividend per share paid on ExDate
type DividendEvent struct {
	ExDate time.Time       `msgpack:"d"`
	Amount decimal.Decimal `msgpack:"a"`
}

// AssetPriceSeries is the price history of one asset for a simulation run.
// Prices and Dividends are kept sorted by date with one entry per day.
type AssetPriceSeries struct {
	Ticker    string          `msgpack:"t"`
	Prices    []PricePoint    `msgpack:"p"`
	Dividends []DividendEvent `msgpack:"v"`
}

// NewAssetPriceSeries builds a series, sorting points by date and keeping the
// last point seen for a duplicated day. Non-positive prices are dropped.
func NewAssetPriceSeries(ticker string, prices []PricePoint, dividends []DividendEvent) *AssetPriceSeries {
	byDay := make(map[time.Time]decimal.Decimal, len(prices))
	for _, p := range prices {
		if p.Price.LessThanOrEqual(decimal.Zero) {
			continue
		}
		byDay[Day(p.Date)] = p.Price
	}
	points := make([]PricePoint, 0, len(byDay))
	for d, price := range byDay {
		points = append(points, PricePoint{Date: d, Price: price})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	divByDay := make(map[time.Time]decimal.Decimal, len(dividends))
	for _, d := range dividends {
		if d.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		day := Day(d.ExDate)
		divByDay[day] = divByDay[day].Add(d.Amount)
	}
	divs := make([]DividendEvent, 0, len(divByDay))
	for d, amount := range divByDay {
		divs = append(divs, DividendEvent{ExDate: d, Amount: amount})
	}
	sort.Slice(divs, func(i, j int) bool { return divs[i].ExDate.Before(divs[j].ExDate) })

	return &AssetPriceSeries{
		Ticker:    NormalizeTicker(ticker),
		Prices:    points,
		Dividends: divs,
	}
}

// MaxPriceGap is how far the nearest prior trading day may lie before a
// requested date. It spans weekends and market holidays, nothing longer.
const MaxPriceGap = 10 * 24 * time.Hour

// PriceOnOrBefore returns the price at date or at the nearest prior trading day
func (s *AssetPriceSeries) PriceOnOrBefore(date time.Time) (PricePoint, bool) {
	day := Day(date)
	// index of the first point strictly after day
	i := sort.Search(len(s.Prices), func(i int) bool { return s.Prices[i].Date.After(day) })
	if i == 0 {
		return PricePoint{}, false
	}
	return s.Prices[i-1], true
}

// PriceNear returns the price at date or at the nearest prior trading day,
// provided that day is at most MaxPriceGap earlier. A series that stops
// before the requested date therefore has no price for it.
func (s *AssetPriceSeries) PriceNear(date time.Time) (PricePoint, bool) {
	p, ok := s.PriceOnOrBefore(date)
	if !ok || Day(date).Sub(p.Date) > MaxPriceGap {
		return PricePoint{}, false
	}
	return p, true
}

// Latest returns the most recent price point
func (s *AssetPriceSeries) Latest() (PricePoint, bool) {
	if len(s.Prices) == 0 {
		return PricePoint{}, false
	}
	return s.Prices[len(s.Prices)-1], true
}

// DividendsBetween returns dividends with an ex-date in (from, to]
func (s *AssetPriceSeries) DividendsBetween(from, to time.Time) []DividendEvent {
	from, to = Day(from), Day(to)
	var out []DividendEvent
	for _, d := range s.Dividends {
		if d.ExDate.After(from) && !d.ExDate.After(to) {
			out = append(out, d)
		}
	}
	return out
}

// PricesBetween returns the price points within [from, to]
func (s *AssetPriceSeries) PricesBetween(from, to time.Time) []PricePoint {
	from, to = Day(from), Day(to)
	var out []PricePoint
	for _, p := range s.Prices {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out
}

// internal/tariff/tariff.go
package tariff

import (
	"fmt"
	"time"

	"parkdesk-service/internal/domain/vehicle"
)

// Charge is an itemized fare: total amount plus the receipt lines that
// produced it. Amounts are whole rupees.
type Charge struct {
	Amount    int64    `json:"amount"`
	Breakdown []string `json:"breakdown"`
}

// Band maps a contiguous duration range (up to and including UpTo) to a
// flat price.
type Band struct {
	UpTo  time.Duration
	Price int64
	Label string
}

// schedule is the complete tariff for one vehicle class: ordered short-stay
// bands terminated by a per-day rate for anything beyond the last band.
type schedule struct {
	Bands     []Band
	DailyRate int64
}

var schedules = map[vehicle.Class]schedule{
	vehicle.ClassCycle: {
		Bands: []Band{
			{2 * time.Hour, 5, "0–2 hrs"},
			{6 * time.Hour, 5, "2–6 hrs"},
			{12 * time.Hour, 10, "6–12 hrs"},
			{24 * time.Hour, 15, "12–24 hrs"},
		},
		DailyRate: 20,
	},
	vehicle.ClassTwoWheeler: {
		Bands: []Band{
			{6 * time.Hour, 10, "0–6 hrs"},
			{12 * time.Hour, 30, "6–12 hrs"},
			{24 * time.Hour, 40, "12–24 hrs"},
		},
		DailyRate: 40,
	},
	vehicle.ClassThreeWheeler: {
		Bands: []Band{
			{6 * time.Hour, 30, "0–6 hrs"},
			{12 * time.Hour, 60, "6–12 hrs"},
			{24 * time.Hour, 80, "12–24 hrs"},
		},
		DailyRate: 80,
	},
	vehicle.ClassFourWheeler: {
		Bands: []Band{
			{6 * time.Hour, 40, "0–6 hrs"},
			{24 * time.Hour, 80, "6–24 hrs"},
		},
		DailyRate: 80,
	},
}

// ComputeFare prices a stay of exitTime-entryTime for the given class.
// Banding works on raw elapsed time, never on rounded hours. Stays beyond
// 24h are charged N whole days at the daily rate plus the leftover hours
// priced as a fresh short stay with "(extra day)" labels. Zero-cost lines
// are omitted from the breakdown. The function is total: a non-positive
// duration yields a zero charge with a single invalid-duration line.
func ComputeFare(class vehicle.Class, entryTime, exitTime time.Time) Charge {
	elapsed := exitTime.Sub(entryTime)
	if elapsed <= 0 {
		return Charge{Amount: 0, Breakdown: []string{"Invalid duration (0 hours): ₹0"}}
	}

	sched, ok := schedules[class]
	if !ok {
		return Charge{Amount: 0, Breakdown: []string{"Invalid duration (0 hours): ₹0"}}
	}

	var c Charge
	add := func(label string, cost int64) {
		if cost > 0 {
			c.Breakdown = append(c.Breakdown, fmt.Sprintf("%s: ₹%d", label, cost))
		}
		c.Amount += cost
	}

	day := 24 * time.Hour
	if elapsed > day {
		days := int64(elapsed / day)
		add(fmt.Sprintf("%d day(s)", days), days*sched.DailyRate)
		elapsed -= time.Duration(days) * day
		if elapsed <= 0 {
			return c
		}
		for _, b := range sched.Bands {
			if elapsed <= b.UpTo {
				add(b.Label+" (extra day)", b.Price)
				break
			}
		}
		return c
	}

	for _, b := range sched.Bands {
		if elapsed <= b.UpTo {
			add(b.Label, b.Price)
			break
		}
	}
	return c
}

// HelmetSurcharge is ₹2 per calendar day of the stay (any started day
// counts), charged for cycles and two-wheelers that deposited a helmet.
// Pass holders pay it too. Returns the amount and its receipt line.
func HelmetSurcharge(entryTime, exitTime time.Time) (int64, string) {
	elapsed := exitTime.Sub(entryTime)
	if elapsed <= 0 {
		return 0, ""
	}
	day := 24 * time.Hour
	days := int64((elapsed + day - 1) / day)
	amount := 2 * days
	return amount, fmt.Sprintf("Helmet (%d day(s)): ₹%d", days, amount)
}

// DurationHours is the display/reporting duration: elapsed time rounded up
// to whole hours. It is intentionally not used for banding; a stay of
// 5h59m59s prices as under 6 hours but displays as 6.
func DurationHours(entryTime, exitTime time.Time) int {
	elapsed := exitTime.Sub(entryTime)
	if elapsed <= 0 {
		return 0
	}
	return int((elapsed + time.Hour - 1) / time.Hour)
}

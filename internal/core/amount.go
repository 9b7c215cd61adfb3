package core

import (
	"encoding/json"
	"fmt"
)

const (
	Yearly    Periodicity = "yearly"
	Monthly   Periodicity = "monthly"
	Quarterly Periodicity = "quarterly"
)

type (
	// Periodicity is the granularity a bill's amounts are recorded at.
	// It is fixed at bill creation and determines the shape of every
	// period's amount.
	Periodicity string

	// Amount is one monetary slot. For yearly bills Month and Quarter are
	// empty; for monthly/quarterly bills exactly one of them keys the slot.
	// Value and Date are kept as entered; Date is stamped the first time
	// Value becomes non-empty and only an explicit date edit changes it
	// afterwards.
	Amount struct {
		Month   string `json:"month,omitempty"`
		Quarter string `json:"quarter,omitempty"`
		Value   string `json:"value"`
		Date    string `json:"date"`
		Remarks string `json:"remarks,omitempty"`
	}

	// PeriodAmount is the tagged union holding either a single yearly slot
	// or a keyed slice of monthly/quarterly slots. The tag is explicit so
	// that an empty slot slice still discriminates; the JSON form stays
	// compatible with the historical documents (object for yearly, array
	// otherwise).
	PeriodAmount struct {
		Tag    Periodicity
		Single Amount
		Slots  []Amount
	}
)

// Months of a financial year, April first.
var FYMonths = []string{
	"April", "May", "June", "July", "August", "September",
	"October", "November", "December", "January", "February", "March",
}

// Quarters of a financial year.
var FYQuarters = []string{"Q1", "Q2", "Q3", "Q4"}

// IsValid reports whether p is one of the three known periodicities.
func (p Periodicity) IsValid() bool {
	switch p {
	case Yearly, Monthly, Quarterly:
		return true
	default:
		return false
	}
}

// EmptyAmountFor returns the zero value of the variant for a periodicity:
// a blank single slot for yearly, an empty slice otherwise.
func EmptyAmountFor(p Periodicity) PeriodAmount {
	if p == Yearly {
		return PeriodAmount{Tag: Yearly, Single: Amount{}}
	}
	return PeriodAmount{Tag: p}
}

// IsYearly reports whether the amount holds a single yearly slot.
func (pa PeriodAmount) IsYearly() bool { return pa.Tag == Yearly }

// IsMonthly reports whether the amount holds month-keyed slots.
func (pa PeriodAmount) IsMonthly() bool { return pa.Tag == Monthly }

// IsQuarterly reports whether the amount holds quarter-keyed slots.
func (pa PeriodAmount) IsQuarterly() bool { return pa.Tag == Quarterly }

// Slot returns the slot keyed by sub ("" for yearly) and whether it exists.
func (pa PeriodAmount) Slot(sub string) (Amount, bool) {
	if pa.Tag == Yearly {
		return pa.Single, true
	}
	for _, a := range pa.Slots {
		if pa.slotKey(a) == sub {
			return a, true
		}
	}
	return Amount{}, false
}

func (pa PeriodAmount) slotKey(a Amount) string {
	if pa.Tag == Quarterly {
		return a.Quarter
	}
	return a.Month
}

// clone returns a deep copy so that edits never alias the source slots.
func (pa PeriodAmount) clone() PeriodAmount {
	out := pa
	if pa.Slots != nil {
		out.Slots = make([]Amount, len(pa.Slots))
		copy(out.Slots, pa.Slots)
	}
	return out
}

// MarshalJSON writes the historical document shape: a bare object for
// yearly, an array of keyed slots for monthly/quarterly.
func (pa PeriodAmount) MarshalJSON() ([]byte, error) {
	if pa.Tag == Yearly {
		return json.Marshal(pa.Single)
	}
	if pa.Slots == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(pa.Slots)
}

// UnmarshalJSON sniffs the stored shape. An array of slots is keyed by
// whichever of month/quarter its first element carries; an empty array
// leaves the tag unset for Bill.Normalize to resolve against the bill's
// periodicity.
func (pa *PeriodAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var slots []Amount
		if err := json.Unmarshal(data, &slots); err != nil {
			return fmt.Errorf("decode period slots: %w", err)
		}
		pa.Slots = slots
		pa.Single = Amount{}
		pa.Tag = ""
		if len(slots) > 0 {
			if slots[0].Quarter != "" {
				pa.Tag = Quarterly
			} else {
				pa.Tag = Monthly
			}
		}
		return nil
	}
	var single Amount
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("decode period amount: %w", err)
	}
	pa.Tag = Yearly
	pa.Single = single
	pa.Slots = nil
	return nil
}

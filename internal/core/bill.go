package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const (
	// KindGST bills are keyed by GST registration number.
	KindGST BillKind = "gst"
	// KindIT bills are keyed by PAN.
	KindIT BillKind = "it"
)

// SubAll is the sub-period value meaning "no single month/quarter selected".
// Monthly and quarterly cells are not editable in that view, so the merge
// functions return their input unchanged.
const SubAll = "All"

// dateStampLayout is the local-date form stamped on first value entry and
// accepted by ApplyDate.
const dateStampLayout = "2006-01-02"

type (
	// BillKind is one of the two tracked obligation types.
	BillKind string

	// Bill is a recurring tax obligation for one payer, tracked per
	// financial year at a fixed periodicity. Exactly one of GSTNo/PAN is
	// set and serves as the unique key within the kind.
	Bill struct {
		Kind        BillKind       `json:"kind"`
		GSTNo       string         `json:"gstNo,omitempty"`
		PAN         string         `json:"pan,omitempty"`
		Name        string         `json:"name"`
		Periodicity Periodicity    `json:"periodicity"`
		Periods     []PeriodRecord `json:"periods"`
	}

	// PeriodRecord holds one financial year's amount. Records are created
	// lazily on first edit and only removed with the whole bill.
	PeriodRecord struct {
		Year   string       `json:"year"`
		Amount PeriodAmount `json:"amount"`
	}
)

var (
	ErrMissingIdentity = errors.New("bill needs exactly one of gst number or pan")
	ErrBadKind         = errors.New("unknown bill kind")
	ErrBadPeriodicity  = errors.New("periodicity not allowed for bill kind")
)

// AllowedPeriodicities returns the periodicities a kind may be created with.
// GST obligations are filed monthly, quarterly or yearly; income-tax ones
// yearly or quarterly (advance tax).
func AllowedPeriodicities(kind BillKind) []Periodicity {
	switch kind {
	case KindGST:
		return []Periodicity{Monthly, Quarterly, Yearly}
	case KindIT:
		return []Periodicity{Yearly, Quarterly}
	default:
		return nil
	}
}

// Identity returns the unique key of the bill within its kind.
func (b Bill) Identity() string {
	if b.Kind == KindIT {
		return b.PAN
	}
	return b.GSTNo
}

// Validate checks identity and periodicity constraints.
func (b Bill) Validate() error {
	switch b.Kind {
	case KindGST, KindIT:
	default:
		return ErrBadKind
	}
	hasGST := strings.TrimSpace(b.GSTNo) != ""
	hasPAN := strings.TrimSpace(b.PAN) != ""
	if hasGST == hasPAN {
		return ErrMissingIdentity
	}
	if b.Kind == KindGST && !hasGST || b.Kind == KindIT && !hasPAN {
		return ErrMissingIdentity
	}
	for _, p := range AllowedPeriodicities(b.Kind) {
		if p == b.Periodicity {
			return nil
		}
	}
	return ErrBadPeriodicity
}

// Normalize resolves period amounts whose tag could not be inferred from
// the stored shape (empty slot arrays) against the bill's periodicity.
func (b Bill) Normalize() Bill {
	out := b
	out.Periods = make([]PeriodRecord, len(b.Periods))
	copy(out.Periods, b.Periods)
	for i := range out.Periods {
		if out.Periods[i].Amount.Tag == "" {
			out.Periods[i].Amount.Tag = b.Periodicity
		}
	}
	return out
}

// Period returns the record for a year label, if present.
func (b Bill) Period(year string) (PeriodRecord, bool) {
	for _, p := range b.Periods {
		if p.Year == year {
			return p, true
		}
	}
	return PeriodRecord{}, false
}

// ApplyAmount returns a copy of the bill with the value of one
// (year, sub-period) slot replaced. If the slot's date is still blank and
// the new value is non-blank, the date is stamped with now's local date;
// an already-set date is never re-stamped, and clearing the value keeps it.
func (b Bill) ApplyAmount(year, sub, value string, now time.Time) Bill {
	return b.editSlot(year, sub, func(a Amount) Amount {
		a.Value = value
		if a.Date == "" && value != "" {
			a.Date = now.Format(dateStampLayout)
		}
		return a
	})
}

// ApplyDate returns a copy of the bill with the date of one slot replaced.
// An input that is not a YYYY-MM-DD date is coerced to blank. Value and
// remarks are untouched.
func (b Bill) ApplyDate(year, sub, date string) Bill {
	if _, err := time.Parse(dateStampLayout, date); err != nil {
		date = ""
	}
	return b.editSlot(year, sub, func(a Amount) Amount {
		a.Date = date
		return a
	})
}

// ApplyRemarks returns a copy of the bill with the remarks of one slot
// replaced. Blank remarks are stored as absent. Value and date are
// untouched.
func (b Bill) ApplyRemarks(year, sub, remarks string) Bill {
	return b.editSlot(year, sub, func(a Amount) Amount {
		a.Remarks = strings.TrimSpace(remarks)
		return a
	})
}

// editSlot is the shared copy-on-write path: it locates or creates the
// period record for year and the slot for sub, applies edit to that slot
// only, and returns a bill whose other periods and sibling slots are the
// same as the input's.
func (b Bill) editSlot(year, sub string, edit func(Amount) Amount) Bill {
	if b.Periodicity != Yearly && (sub == "" || sub == SubAll) {
		return b
	}

	out := b
	out.Periods = make([]PeriodRecord, len(b.Periods))
	copy(out.Periods, b.Periods)

	idx := -1
	for i, p := range out.Periods {
		if p.Year == year {
			idx = i
			break
		}
	}
	if idx < 0 {
		out.Periods = append(out.Periods, PeriodRecord{Year: year, Amount: EmptyAmountFor(b.Periodicity)})
		idx = len(out.Periods) - 1
		sort.Slice(out.Periods, func(i, j int) bool { return out.Periods[i].Year < out.Periods[j].Year })
		for i, p := range out.Periods {
			if p.Year == year {
				idx = i
				break
			}
		}
	}

	pa := out.Periods[idx].Amount.clone()
	if pa.Tag == "" {
		pa.Tag = b.Periodicity
	}
	if pa.Tag == Yearly {
		pa.Single = edit(pa.Single)
	} else {
		si := -1
		for i, a := range pa.Slots {
			if pa.slotKey(a) == sub {
				si = i
				break
			}
		}
		if si < 0 {
			blank := Amount{}
			if pa.Tag == Quarterly {
				blank.Quarter = sub
			} else {
				blank.Month = sub
			}
			pa.Slots = append(pa.Slots, blank)
			si = len(pa.Slots) - 1
		}
		pa.Slots[si] = edit(pa.Slots[si])
	}
	out.Periods[idx].Amount = pa
	return out
}

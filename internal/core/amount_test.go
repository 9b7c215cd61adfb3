package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEmptyAmountFor(t *testing.T) {
	y := EmptyAmountFor(Yearly)
	if !y.IsYearly() || y.Single.Value != "" || y.Single.Date != "" {
		t.Errorf("yearly zero value = %+v", y)
	}
	m := EmptyAmountFor(Monthly)
	if !m.IsMonthly() || len(m.Slots) != 0 {
		t.Errorf("monthly zero value = %+v", m)
	}
	q := EmptyAmountFor(Quarterly)
	if !q.IsQuarterly() || len(q.Slots) != 0 {
		t.Errorf("quarterly zero value = %+v", q)
	}
}

func TestPeriodAmountJSONShapes(t *testing.T) {
	yearly := PeriodAmount{Tag: Yearly, Single: Amount{Value: "500", Date: "2024-06-01"}}
	data, err := json.Marshal(yearly)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(data), "[") {
		t.Fatalf("yearly amount marshalled as array: %s", data)
	}

	var back PeriodAmount
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.IsYearly() || back.Single.Value != "500" {
		t.Errorf("yearly round trip = %+v", back)
	}
}

func TestPeriodAmountJSONDiscrimination(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Periodicity
	}{
		{"monthly", `[{"month":"April","value":"100","date":"2024-04-10"}]`, Monthly},
		{"quarterly", `[{"quarter":"Q1","value":"100","date":"2024-04-10"}]`, Quarterly},
		{"yearly", `{"value":"100","date":"2024-04-10"}`, Yearly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var pa PeriodAmount
			if err := json.Unmarshal([]byte(tc.doc), &pa); err != nil {
				t.Fatal(err)
			}
			if pa.Tag != tc.want {
				t.Errorf("tag = %q, want %q", pa.Tag, tc.want)
			}
		})
	}
}

func TestEmptySlotArrayResolvedByNormalize(t *testing.T) {
	// An empty array carries no discriminating information; the decoder
	// leaves the tag unset and Normalize fills it from the bill.
	doc := `{"kind":"gst","gstNo":"X","name":"n","periodicity":"quarterly",
		"periods":[{"year":"2024-25","amount":[]}]}`
	var b Bill
	if err := json.Unmarshal([]byte(doc), &b); err != nil {
		t.Fatal(err)
	}
	if tag := b.Periods[0].Amount.Tag; tag != "" {
		t.Fatalf("decoder guessed tag %q from empty array", tag)
	}
	b = b.Normalize()
	if !b.Periods[0].Amount.IsQuarterly() {
		t.Errorf("Normalize tag = %q, want quarterly", b.Periods[0].Amount.Tag)
	}
}

func TestSlotLookup(t *testing.T) {
	pa := PeriodAmount{Tag: Quarterly, Slots: []Amount{
		{Quarter: "Q1", Value: "10"},
		{Quarter: "Q3", Value: "30"},
	}}
	if got, ok := pa.Slot("Q3"); !ok || got.Value != "30" {
		t.Errorf("Slot(Q3) = %+v, %v", got, ok)
	}
	if _, ok := pa.Slot("Q2"); ok {
		t.Error("Slot(Q2) should be absent")
	}
}

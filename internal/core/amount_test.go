package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,234.56", 1234.56, true},
		{"12.34", 12.34, true},
		{"", 0, true},
		{"  42 ", 42, true},
		{"-5.50", -5.5, true},
		{"EUR 9,99", 999, true}, // comma stripped, not a decimal separator
		{"1.2.3", 0, false},
		{"--", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Category{Name: "Food"}).Validate(); err != nil {
		t.Fatalf("category: %v", err)
	}
	if err := (Category{Name: "  "}).Validate(); err == nil {
		t.Fatal("expected error for blank category name")
	}
	if err := (Transaction{Amount: 5, Date: "2025-03-10"}).Validate(); err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := (Transaction{Amount: 5, Date: "10/03/2025"}).Validate(); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if err := (RecurringItem{Next: "2025-03-10", Freq: Weekly}).Validate(); err != nil {
		t.Fatalf("recurring: %v", err)
	}
	if err := (RecurringItem{Next: "2025-03-10", Freq: "hourly"}).Validate(); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

package common

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGenerateTrxNo(t *testing.T) {
	trx := GenerateTrxNo()
	if len(trx) != 7 {
		t.Errorf("Expected length 7, got %d", len(trx))
	}

	validChars := "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for _, char := range trx {
		isValid := false
		for _, validChar := range validChars {
			if char == validChar {
				isValid = true
				break
			}
		}
		if !isValid {
			t.Errorf("Invalid character found: %c", char)
		}
	}
}

func TestReferralCodeFromID(t *testing.T) {
	code := ReferralCodeFromID("f3a9c1d2-7b44-4e1a-9f00-aabbccddeeff")
	if code != "F3A9C1D2" {
		t.Errorf("Expected F3A9C1D2, got %s", code)
	}
	if ReferralCodeFromID("ab") != "AB" {
		t.Errorf("short ids should be used as-is")
	}
}

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"}, // half rounds up
		{"10.004", "10"},
		{"0.125", "0.13"},
		{"99.999", "100"},
	}
	for _, c := range cases {
		in, _ := decimal.NewFromString(c.in)
		want, _ := decimal.NewFromString(c.want)
		if got := RoundMoney(in); !got.Equal(want) {
			t.Errorf("RoundMoney(%s) = %s, want %s", c.in, got, want)
		}
	}
}

func TestPercentOf(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	if got := PercentOf(amount, 50); !got.Equal(decimal.NewFromInt(500)) {
		t.Errorf("PercentOf(1000, 50) = %s, want 500", got)
	}
	if got := PercentOf(amount, 0); !got.IsZero() {
		t.Errorf("PercentOf(1000, 0) = %s, want 0", got)
	}
}

func TestPaginateResponse(t *testing.T) {
	total := int64(100)
	page := 1
	limit := 10
	data := []string{"item1", "item2"}

	res := PaginateResponse(data, total, page, limit, "")

	if res.CurrentPage != 1 {
		t.Errorf("Expected CurrentPage 1, got %d", res.CurrentPage)
	}
	if res.LastPage != 10 {
		t.Errorf("Expected LastPage 10, got %d", res.LastPage)
	}
	if res.NextPage != 2 {
		t.Errorf("Expected NextPage 2, got %d", res.NextPage)
	}
	if res.PrevPage != 0 {
		t.Errorf("Expected PrevPage 0, got %d", res.PrevPage)
	}
	if res.Count != 100 {
		t.Errorf("Expected Count 100, got %d", res.Count)
	}

	page = 10
	res = PaginateResponse(data, total, page, limit, "")
	if res.NextPage != 0 {
		t.Errorf("Expected NextPage 0 for last page, got %d", res.NextPage)
	}

	page = 5
	res = PaginateResponse(data, total, page, limit, "")
	if res.PrevPage != 4 {
		t.Errorf("Expected PrevPage 4, got %d", res.PrevPage)
	}
	if res.NextPage != 6 {
		t.Errorf("Expected NextPage 6, got %d", res.NextPage)
	}
}

package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewMoney_RejectsNegative(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(-1))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got: %v", err)
	}
}

func TestMoneyFromString(t *testing.T) {
	m, err := MoneyFromString("19.99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.String() != "19.99" {
		t.Errorf("expected 19.99, got %s", m)
	}

	if _, err := MoneyFromString("not-a-number"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got: %v", err)
	}
	if _, err := MoneyFromString("-5"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative, got: %v", err)
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	ten, _ := MoneyFromString("10")
	five, _ := MoneyFromString("5")

	sum := ten.Add(five)
	want, _ := MoneyFromString("15")
	if !sum.Equal(want) {
		t.Errorf("expected 15, got %s", sum)
	}

	scaled := five.MultiplyQty(3)
	want, _ = MoneyFromString("15")
	if !scaled.Equal(want) {
		t.Errorf("expected 15, got %s", scaled)
	}
}

func TestMoney_ZeroIdentity(t *testing.T) {
	if !ZeroMoney().IsZero() {
		t.Error("zero money should report IsZero")
	}
	ten, _ := MoneyFromString("10")
	if !ten.Add(ZeroMoney()).Equal(ten) {
		t.Error("adding zero should not change the amount")
	}
}

func TestMoney_EqualityByValue(t *testing.T) {
	a, _ := MoneyFromString("10.50")
	b, _ := MoneyFromString("10.5")
	if !a.Equal(b) {
		t.Error("10.50 and 10.5 should be equal by value")
	}
}

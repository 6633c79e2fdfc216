package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rl1809/ecommerce-core/internal/adapter/storage"
)

func newCustomerService() *CustomerService {
	return NewCustomerService(storage.NewMemoryStore().Customers())
}

func sampleCustomer() CustomerInput {
	return CustomerInput{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "555-0100",
		Address:     "1 Main St",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62701",
	}
}

func TestCustomerService_CreateAndGet(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCustomer())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID().IsZero() {
		t.Error("expected assigned id")
	}

	got, err := svc.Get(ctx, created.ID().Int64())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Email() != "jane@example.com" {
		t.Errorf("unexpected customer: %+v", got)
	}

	byEmail, err := svc.GetByEmail(ctx, "jane@example.com")
	if err != nil || byEmail == nil || byEmail.ID() != created.ID() {
		t.Errorf("GetByEmail: got %+v, err %v", byEmail, err)
	}
	byPhone, err := svc.GetByPhoneNumber(ctx, "555-0100")
	if err != nil || byPhone == nil || byPhone.ID() != created.ID() {
		t.Errorf("GetByPhoneNumber: got %+v, err %v", byPhone, err)
	}
}

func TestCustomerService_DuplicateEmailAndPhone(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleCustomer()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dupEmail := sampleCustomer()
	dupEmail.PhoneNumber = "555-0999"
	if _, err := svc.Create(ctx, dupEmail); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("duplicate email: expected ErrDuplicateValue, got %v", err)
	}

	dupPhone := sampleCustomer()
	dupPhone.Email = "other@example.com"
	if _, err := svc.Create(ctx, dupPhone); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("duplicate phone: expected ErrDuplicateValue, got %v", err)
	}
}

func TestCustomerService_UpdateInfo(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, sampleCustomer())
	other := sampleCustomer()
	other.Email = "john@example.com"
	other.PhoneNumber = "555-0200"
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdateInfo(ctx, first.ID().Int64(), CustomerInput{City: "Shelbyville"})
	if err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	if updated.City() != "Shelbyville" {
		t.Errorf("expected Shelbyville, got %s", updated.City())
	}
	if updated.FirstName() != "Jane" {
		t.Errorf("blank first name should be ignored, got %s", updated.FirstName())
	}

	// Taking another customer's phone must fail.
	if _, err := svc.UpdateInfo(ctx, first.ID().Int64(), CustomerInput{PhoneNumber: "555-0200"}); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("expected ErrDuplicateValue, got %v", err)
	}

	if _, err := svc.UpdateInfo(ctx, 9999, CustomerInput{City: "Nowhere"}); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerService_UpdateEmail(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, sampleCustomer())
	other := sampleCustomer()
	other.Email = "john@example.com"
	other.PhoneNumber = "555-0200"
	svc.Create(ctx, other)

	updated, err := svc.UpdateEmail(ctx, first.ID().Int64(), "jane.doe@example.com")
	if err != nil {
		t.Fatalf("UpdateEmail failed: %v", err)
	}
	if updated.Email() != "jane.doe@example.com" {
		t.Errorf("expected new email, got %s", updated.Email())
	}

	if _, err := svc.UpdateEmail(ctx, first.ID().Int64(), "john@example.com"); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("expected ErrDuplicateValue, got %v", err)
	}
}

func TestCustomerService_Delete(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, sampleCustomer())
	if err := svc.Delete(ctx, created.ID().Int64()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, _ := svc.Get(ctx, created.ID().Int64())
	if gone != nil {
		t.Error("expected customer to be gone")
	}
	if err := svc.Delete(ctx, created.ID().Int64()); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

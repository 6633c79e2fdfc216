package service

import (
	"context"
	"fmt"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/port"
)

type CustomerInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	State       string
	ZipCode     string
}

type CustomerService struct {
	customers port.CustomerRepository
}

func NewCustomerService(customers port.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	byEmail, err := s.customers.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	if byEmail != nil {
		return nil, fmt.Errorf("%w: email %q already registered", ErrDuplicateValue, in.Email)
	}
	byPhone, err := s.customers.FindByPhoneNumber(ctx, in.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("find customer by phone: %w", err)
	}
	if byPhone != nil {
		return nil, fmt.Errorf("%w: phone number %q already registered", ErrDuplicateValue, in.PhoneNumber)
	}

	customer, err := domain.NewCustomer(in.FirstName, in.LastName, in.Email, in.PhoneNumber,
		in.Address, in.City, in.State, in.ZipCode)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	customerID, err := domain.NewCustomerID(id)
	if err != nil {
		return nil, err
	}
	return s.customers.FindByID(ctx, customerID)
}

func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.customers.FindByEmail(ctx, email)
}

func (s *CustomerService) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Customer, error) {
	return s.customers.FindByPhoneNumber(ctx, phoneNumber)
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.FindAll(ctx)
}

// UpdateInfo merges the non-blank fields of in; Email is ignored here and
// changed only through UpdateEmail. Changing the phone number to one held
// by another customer fails.
func (s *CustomerService) UpdateInfo(ctx context.Context, id int64, in CustomerInput) (*domain.Customer, error) {
	customerID, err := domain.NewCustomerID(id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
	}

	if in.PhoneNumber != "" && in.PhoneNumber != customer.PhoneNumber() {
		other, err := s.customers.FindByPhoneNumber(ctx, in.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("find customer by phone: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("%w: phone number %q already registered", ErrDuplicateValue, in.PhoneNumber)
		}
	}

	customer.UpdateInfo(in.FirstName, in.LastName, in.PhoneNumber,
		in.Address, in.City, in.State, in.ZipCode)

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) UpdateEmail(ctx context.Context, id int64, email string) (*domain.Customer, error) {
	customerID, err := domain.NewCustomerID(id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
	}

	if email != customer.Email() {
		other, err := s.customers.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find customer by email: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("%w: email %q already registered", ErrDuplicateValue, email)
		}
	}

	if err := customer.UpdateEmail(email); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	customerID, err := domain.NewCustomerID(id)
	if err != nil {
		return err
	}
	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
	}
	return s.customers.Delete(ctx, customerID)
}

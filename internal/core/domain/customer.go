package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// Customer is the buyer aggregate. Email and phone number are unique across
// customers; the application service enforces that through the repository.
type Customer struct {
	id          CustomerID
	firstName   string
	lastName    string
	email       string
	phoneNumber string
	address     string
	city        string
	state       string
	zipCode     string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCustomer(firstName, lastName, email, phoneNumber, address, city, state, zipCode string) (*Customer, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, fmt.Errorf("%w: first name cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("%w: last name cannot be empty", ErrInvalidArgument)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address %q", ErrInvalidArgument, email)
	}
	if strings.TrimSpace(phoneNumber) == "" {
		return nil, fmt.Errorf("%w: phone number cannot be empty", ErrInvalidArgument)
	}
	now := time.Now()
	return &Customer{
		firstName:   firstName,
		lastName:    lastName,
		email:       email,
		phoneNumber: phoneNumber,
		address:     address,
		city:        city,
		state:       state,
		zipCode:     zipCode,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func RestoreCustomer(id CustomerID, firstName, lastName, email, phoneNumber, address, city, state, zipCode string, createdAt, updatedAt time.Time) *Customer {
	return &Customer{
		id:          id,
		firstName:   firstName,
		lastName:    lastName,
		email:       email,
		phoneNumber: phoneNumber,
		address:     address,
		city:        city,
		state:       state,
		zipCode:     zipCode,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Customer) ID() CustomerID       { return c.id }
func (c *Customer) FirstName() string    { return c.firstName }
func (c *Customer) LastName() string     { return c.lastName }
func (c *Customer) Email() string        { return c.email }
func (c *Customer) PhoneNumber() string  { return c.phoneNumber }
func (c *Customer) Address() string      { return c.address }
func (c *Customer) City() string         { return c.city }
func (c *Customer) State() string        { return c.state }
func (c *Customer) ZipCode() string      { return c.zipCode }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

func (c *Customer) FullName() string {
	return c.firstName + " " + c.lastName
}

func (c *Customer) AssignID(id CustomerID) error {
	if !c.id.IsZero() {
		return fmt.Errorf("%w: customer id already assigned", ErrInvalidArgument)
	}
	if id.IsZero() {
		return fmt.Errorf("%w: customer id must be positive", ErrInvalidArgument)
	}
	c.id = id
	return nil
}

// UpdateInfo merges the non-blank fields; blank means "leave unchanged".
// Email has its own validated path, UpdateEmail.
func (c *Customer) UpdateInfo(firstName, lastName, phoneNumber, address, city, state, zipCode string) {
	if strings.TrimSpace(firstName) != "" {
		c.firstName = firstName
	}
	if strings.TrimSpace(lastName) != "" {
		c.lastName = lastName
	}
	if strings.TrimSpace(phoneNumber) != "" {
		c.phoneNumber = phoneNumber
	}
	if strings.TrimSpace(address) != "" {
		c.address = address
	}
	if strings.TrimSpace(city) != "" {
		c.city = city
	}
	if strings.TrimSpace(state) != "" {
		c.state = state
	}
	if strings.TrimSpace(zipCode) != "" {
		c.zipCode = zipCode
	}
	c.updatedAt = time.Now()
}

func (c *Customer) UpdateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address %q", ErrInvalidArgument, email)
	}
	c.email = email
	c.updatedAt = time.Now()
	return nil
}

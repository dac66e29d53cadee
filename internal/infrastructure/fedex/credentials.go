package fedex

import (
	"errors"
	"fmt"
)

// ErrIncompleteCredentials indicates one or more FedEx account credential
// fields are empty.
var ErrIncompleteCredentials = errors.New("fedex: account credentials are incomplete")

// Credentials is the validated bundle of FedEx web-service account
// credentials. Immutable once built; owned by the carrier-account
// configuration and injected into the shipping services at construction.
type Credentials struct {
	Key            string
	Password       string
	AccountNumber  string
	MeterNumber    string
	IntegratorID   string
	ProductID      string
	ProductVersion string
}

// NewCredentials builds a Credentials bundle, failing if any field is empty.
func NewCredentials(key, password, accountNumber, meterNumber, integratorID, productID, productVersion string) (Credentials, error) {
	c := Credentials{
		Key:            key,
		Password:       password,
		AccountNumber:  accountNumber,
		MeterNumber:    meterNumber,
		IntegratorID:   integratorID,
		ProductID:      productID,
		ProductVersion: productVersion,
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Validate checks that all seven credential fields are non-empty.
func (c Credentials) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"key", c.Key},
		{"password", c.Password},
		{"account number", c.AccountNumber},
		{"meter number", c.MeterNumber},
		{"integrator id", c.IntegratorID},
		{"product id", c.ProductID},
		{"product version", c.ProductVersion},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", ErrIncompleteCredentials, f.name)
		}
	}
	return nil
}

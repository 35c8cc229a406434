package synth

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

const (
	minCarYear       = 2015
	maxCarYear       = 2024
	minRating        = 3.5
	maxRating        = 5.0
	licensePrefix    = "TLC-"
	licenseDigits    = "#####"
	licenseLetters   = "??"
	phonePattern     = "###-###-####"
	maxEmailAttempts = 10
)

// CarModels is the fixed catalog synthetic drivers drive.
var CarModels = []string{
	"Toyota Camry",
	"Toyota Prius",
	"Honda Accord",
	"Ford Fusion",
	"Chevrolet Malibu",
	"Nissan Altima",
	"Hyundai Sonata",
	"Kia Optima",
}

// Faker produces realistic looking personal data. *gofakeit.Faker satisfies it.
type Faker interface {
	FirstName() string
	LastName() string
	Email() string
	Numerify(str string) string
	Lexify(str string) string
}

// EntityGenerator builds synthetic drivers and customers.
type EntityGenerator struct {
	faker Faker
	src   Source
}

// NewEntityGenerator creates an EntityGenerator.
func NewEntityGenerator(faker Faker, src Source) EntityGenerator {
	return EntityGenerator{faker: faker, src: src}
}

// Population sizes of a standard seed run.
const (
	DefaultDriverCount   = 500
	DefaultCustomerCount = 5000
)

// Drivers generates n offline drivers with license numbers shaped like TLC-12345AB.
func (g EntityGenerator) Drivers(n int) []marketplace.Driver {
	drivers := make([]marketplace.Driver, 0, n)

	for range n {
		drivers = append(drivers, marketplace.Driver{
			FirstName:     g.faker.FirstName(),
			LastName:      g.faker.LastName(),
			LicenseNumber: g.licenseNumber(),
			CarModel:      Pick(g.src, CarModels),
			CarYear:       IntBetween(g.src, minCarYear, maxCarYear),
			Rating:        g.rating(),
			Status:        marketplace.DriverStatusOffline,
		})
	}

	return drivers
}

// Customers generates m customers. Emails are unique within the returned slice.
func (g EntityGenerator) Customers(m int) []marketplace.Customer {
	customers := make([]marketplace.Customer, 0, m)
	seen := make(map[string]struct{}, m)

	for i := range m {
		customers = append(customers, marketplace.Customer{
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Email:     g.uniqueEmail(seen, i),
			Phone:     g.faker.Numerify(phonePattern),
			Rating:    g.rating(),
		})
	}

	return customers
}

func (g EntityGenerator) licenseNumber() string {
	return strings.ToUpper(licensePrefix + g.faker.Numerify(licenseDigits) + g.faker.Lexify(licenseLetters))
}

func (g EntityGenerator) rating() float64 {
	return marketplace.Round2(Uniform(g.src, minRating, maxRating))
}

func (g EntityGenerator) uniqueEmail(seen map[string]struct{}, index int) string {
	for range maxEmailAttempts {
		email := g.faker.Email()
		if _, taken := seen[email]; !taken {
			seen[email] = struct{}{}
			return email
		}
	}

	// fall back to a numbered local part
	email := fmt.Sprintf("customer%d.%s", index, g.faker.Email())
	seen[email] = struct{}{}

	return email
}

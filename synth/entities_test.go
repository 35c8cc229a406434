package synth_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
)

var (
	licensePattern = regexp.MustCompile(`^TLC-\d{5}[A-Z]{2}$`)
	phonePattern   = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// constantFaker returns the same person over and over.
type constantFaker struct{}

func (constantFaker) FirstName() string          { return "Ada" }
func (constantFaker) LastName() string           { return "Lovelace" }
func (constantFaker) Email() string              { return "ada@example.com" }
func (constantFaker) Numerify(str string) string { return strings.ReplaceAll(str, "#", "7") }
func (constantFaker) Lexify(str string) string   { return strings.ReplaceAll(str, "?", "q") }

func givenEntityGenerator(seed uint64) synth.EntityGenerator {
	return synth.NewEntityGenerator(gofakeit.New(seed), synth.NewSource(seed))
}

func Test_EntityGenerator_Drivers(t *testing.T) {
	// act
	drivers := givenEntityGenerator(42).Drivers(synth.DefaultDriverCount)

	// assert
	require.Len(t, drivers, 500)

	for _, d := range drivers {
		assert.NotEmpty(t, d.FirstName)
		assert.NotEmpty(t, d.LastName)
		assert.Regexp(t, licensePattern, d.LicenseNumber)
		assert.Contains(t, synth.CarModels, d.CarModel)
		assert.GreaterOrEqual(t, d.CarYear, 2015)
		assert.LessOrEqual(t, d.CarYear, 2024)
		assert.GreaterOrEqual(t, d.Rating, 3.5)
		assert.LessOrEqual(t, d.Rating, 5.0)
		assert.Equal(t, marketplace.Round2(d.Rating), d.Rating)
		assert.Equal(t, marketplace.DriverStatusOffline, d.Status)
		assert.Zero(t, d.ID)
	}
}

func Test_EntityGenerator_Drivers_UppercasesLicense(t *testing.T) {
	drivers := synth.NewEntityGenerator(constantFaker{}, synth.NewSource(1)).Drivers(1)

	require.Len(t, drivers, 1)
	assert.Equal(t, "TLC-77777QQ", drivers[0].LicenseNumber)
}

func Test_EntityGenerator_Customers(t *testing.T) {
	// act
	customers := givenEntityGenerator(7).Customers(synth.DefaultCustomerCount)

	// assert
	require.Len(t, customers, 5000)

	emails := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		assert.NotEmpty(t, c.FirstName)
		assert.NotEmpty(t, c.LastName)
		assert.Contains(t, c.Email, "@")
		assert.Regexp(t, phonePattern, c.Phone)
		assert.GreaterOrEqual(t, c.Rating, 3.5)
		assert.LessOrEqual(t, c.Rating, 5.0)

		emails[c.Email] = struct{}{}
	}

	assert.Len(t, emails, len(customers), "emails must be unique within a batch")
}

func Test_EntityGenerator_Customers_FallsBackOnEmailCollisions(t *testing.T) {
	// act
	customers := synth.NewEntityGenerator(constantFaker{}, synth.NewSource(1)).Customers(3)

	// assert
	require.Len(t, customers, 3)
	assert.Equal(t, "ada@example.com", customers[0].Email)
	assert.Equal(t, "customer1.ada@example.com", customers[1].Email)
	assert.Equal(t, "customer2.ada@example.com", customers[2].Email)
	assert.Equal(t, "777-777-7777", customers[0].Phone)
}

func Test_EntityGenerator_ZeroCounts(t *testing.T) {
	g := givenEntityGenerator(3)

	assert.Empty(t, g.Drivers(0))
	assert.Empty(t, g.Customers(0))
}

func Test_EntityGenerator_IsDeterministicForASeed(t *testing.T) {
	first := givenEntityGenerator(99).Drivers(20)
	second := givenEntityGenerator(99).Drivers(20)

	assert.Equal(t, first, second)
}

func Test_IntBetween_IncludesBothEnds(t *testing.T) {
	src := synth.NewSource(5)
	seen := map[int]bool{}

	for range 1000 {
		v := synth.IntBetween(src, 1, 4)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 4)
		seen[v] = true
	}

	assert.Len(t, seen, 4)
}

func Test_NewSource_ZeroSeedIsRandom(t *testing.T) {
	a := synth.NewSource(0)
	b := synth.NewSource(0)

	assert.NotEqual(t, a.Float64(), b.Float64())
}

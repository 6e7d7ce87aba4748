package brand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/billingmail/internal/brand"
	"github.com/shaharia-lab/billingmail/internal/event"
)

func testRegistry(t *testing.T) *brand.Registry {
	t.Helper()
	r, err := brand.NewRegistry([]brand.Brand{
		{ID: "acme", DisplayName: "Acme", FromAddress: "billing@acme.io", Region: "eu-west-1"},
		{ID: "globex", DisplayName: "Globex", FromAddress: "billing@globex.io", Region: "us-east-1"},
	}, "acme")
	require.NoError(t, err)
	return r
}

func TestResolve_NoMetadataYieldsDefaults(t *testing.T) {
	r := brand.NewResolver(testRegistry(t))

	b, locale := r.Resolve(&event.Context{})
	assert.Equal(t, "acme", b.ID)
	assert.Equal(t, brand.LocaleEN, locale)
}

func TestResolve_HighestTierWins(t *testing.T) {
	r := brand.NewResolver(testRegistry(t))

	evt := &event.Context{
		EventMetadata:    map[string]string{"brand": "globex"},
		CustomerMetadata: map[string]string{"brand": "acme", "locale": "pl"},
		PriceMetadata:    map[string]string{"locale": "en"},
	}
	b, locale := r.Resolve(evt)
	assert.Equal(t, "globex", b.ID)
	assert.Equal(t, brand.LocalePL, locale)
}

func TestResolve_InvalidValueIsSkippedNotMatched(t *testing.T) {
	r := brand.NewResolver(testRegistry(t))

	evt := &event.Context{
		EventMetadata: map[string]string{"brand": "initech", "locale": "de"},
		PriceMetadata: map[string]string{"brand": "globex", "locale": "pl"},
	}
	b, locale := r.Resolve(evt)
	assert.Equal(t, "globex", b.ID, "invalid higher-tier brand must not block lower tiers")
	assert.Equal(t, brand.LocalePL, locale)
}

func TestResolve_BrandAndLocaleAreIndependent(t *testing.T) {
	r := brand.NewResolver(testRegistry(t))

	// Brand matches at tier 1; locale only appears at tier 4.
	evt := &event.Context{
		EventMetadata:   map[string]string{"brand": "globex"},
		ProductMetadata: map[string]string{"locale": "pl"},
	}
	b, locale := r.Resolve(evt)
	assert.Equal(t, "globex", b.ID)
	assert.Equal(t, brand.LocalePL, locale)
}

func TestResolve_CaseInsensitiveMatch(t *testing.T) {
	r := brand.NewResolver(testRegistry(t))

	evt := &event.Context{
		EventMetadata: map[string]string{"brand": "GLOBEX", "locale": "PL"},
	}
	b, locale := r.Resolve(evt)
	assert.Equal(t, "globex", b.ID)
	assert.Equal(t, brand.LocalePL, locale)
}

func TestParseLocale(t *testing.T) {
	l, ok := brand.ParseLocale(" EN ")
	assert.True(t, ok)
	assert.Equal(t, brand.LocaleEN, l)

	_, ok = brand.ParseLocale("fr")
	assert.False(t, ok)
}

func TestNewRegistry_Validation(t *testing.T) {
	_, err := brand.NewRegistry(nil, "acme")
	assert.Error(t, err)

	_, err = brand.NewRegistry([]brand.Brand{
		{ID: "acme", FromAddress: "billing@acme.io"},
	}, "missing")
	assert.Error(t, err, "default brand must be part of the configured set")

	_, err = brand.NewRegistry([]brand.Brand{{ID: "acme"}}, "acme")
	assert.Error(t, err, "brand without from address must be rejected")
}

func TestRegistry_GetAndIDs(t *testing.T) {
	r := testRegistry(t)

	b, ok := r.Get(" Acme ")
	assert.True(t, ok)
	assert.Equal(t, "Acme", b.DisplayName)

	_, ok = r.Get("initech")
	assert.False(t, ok)

	assert.Equal(t, []string{"acme", "globex"}, r.IDs())
	assert.Equal(t, "acme", r.Default().ID)
}

package placeholder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaharia-lab/billingmail/internal/placeholder"
)

func TestSubstitute_SimpleKey(t *testing.T) {
	out := placeholder.Substitute("Hello {{ name }}!", placeholder.Bag{"name": "Ada"})
	assert.Equal(t, "Hello Ada!", out)
}

func TestSubstitute_DottedPath(t *testing.T) {
	bag := placeholder.Bag{
		"invoice": map[string]any{
			"customer": map[string]any{"name": "Ada"},
		},
	}
	out := placeholder.Substitute("Dear {{ invoice.customer.name }},", bag)
	assert.Equal(t, "Dear Ada,", out)
}

func TestSubstitute_StringMapLevel(t *testing.T) {
	bag := placeholder.Bag{
		"meta": map[string]string{"brand": "acme"},
	}
	out := placeholder.Substitute("brand={{ meta.brand }}", bag)
	assert.Equal(t, "brand=acme", out)
}

func TestSubstitute_MissingKeyUsesDefault(t *testing.T) {
	out := placeholder.Substitute("Hello {{ name | Customer }}!", placeholder.Bag{})
	assert.Equal(t, "Hello Customer!", out)
}

func TestSubstitute_MissingKeyWithoutDefaultKeepsMarker(t *testing.T) {
	out := placeholder.Substitute("Hello {{ name }}!", placeholder.Bag{})
	assert.Equal(t, "Hello {{ name }}!", out)
}

func TestSubstitute_EmptyDefaultIsHonored(t *testing.T) {
	out := placeholder.Substitute("Hello {{ name | }}!", placeholder.Bag{})
	assert.Equal(t, "Hello !", out)
}

func TestSubstitute_NilValueCountsAsMissing(t *testing.T) {
	bag := placeholder.Bag{"name": nil}
	out := placeholder.Substitute("{{ name | fallback }}", bag)
	assert.Equal(t, "fallback", out)
}

func TestSubstitute_NonTraversableIntermediate(t *testing.T) {
	bag := placeholder.Bag{"a": "plain string"}
	out := placeholder.Substitute("{{ a.b.c | deep }}", bag)
	assert.Equal(t, "deep", out)
}

func TestSubstitute_NumericValue(t *testing.T) {
	bag := placeholder.Bag{"count": 42}
	out := placeholder.Substitute("count={{ count }}", bag)
	assert.Equal(t, "count=42", out)
}

func TestSubstitute_SinglePass(t *testing.T) {
	// A resolved value containing marker syntax must not be re-expanded.
	bag := placeholder.Bag{"a": "{{ b }}", "b": "nope"}
	out := placeholder.Substitute("{{ a }}", bag)
	assert.Equal(t, "{{ b }}", out)
}

func TestSubstitute_IdempotentOnResolvedText(t *testing.T) {
	bag := placeholder.Bag{"name": "Ada", "city": "London"}
	first := placeholder.Substitute("{{ name }} of {{ city }}", bag)
	second := placeholder.Substitute(first, bag)
	assert.Equal(t, first, second)
}

func TestSubstitute_MultipleMarkers(t *testing.T) {
	bag := placeholder.Bag{"a": "1", "b": "2"}
	out := placeholder.Substitute("{{ a }}+{{ b }}={{ c | ? }}", bag)
	assert.Equal(t, "1+2=?", out)
}

func TestSubstitute_TightSpacing(t *testing.T) {
	bag := placeholder.Bag{"name": "Ada"}
	assert.Equal(t, "Ada", placeholder.Substitute("{{name}}", bag))
	assert.Equal(t, "Ada", placeholder.Substitute("{{  name  }}", bag))
}

func TestSubstitute_DefaultIsTrimmed(t *testing.T) {
	out := placeholder.Substitute("{{ missing |   padded default   }}", placeholder.Bag{})
	assert.Equal(t, "padded default", out)
}

package geocode

import (
	"testing"

	"github.com/listing-locator/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func component(name string, types ...string) maps.AddressComponent {
	return maps.AddressComponent{LongName: name, ShortName: name, Types: types}
}

func TestFromAddressComponents(t *testing.T) {
	testCases := []struct {
		name       string
		components []maps.AddressComponent
		expected   models.LocationRecord
	}{
		{
			name: "full hierarchy",
			components: []maps.AddressComponent{
				component("Iyunga", "sublocality", "sublocality_level_1", "political"),
				component("Mbeya Urban", "administrative_area_level_2", "political"),
				component("Mbeya Region", "administrative_area_level_1", "political"),
				component("Tanzania", "country", "political"),
			},
			expected: models.LocationRecord{Region: "Mbeya", District: "Mbeya Urban", Area: "Iyunga"},
		},
		{
			name: "level 3 preferred over neighborhood",
			components: []maps.AddressComponent{
				component("Sokoine", "neighborhood", "political"),
				component("Ruanda Ward", "administrative_area_level_3", "political"),
				component("Mbeya Urban", "administrative_area_level_2", "political"),
				component("Mbeya", "administrative_area_level_1", "political"),
			},
			expected: models.LocationRecord{Region: "Mbeya", District: "Mbeya Urban", Area: "Ruanda"},
		},
		{
			name: "locality equal to district dropped",
			components: []maps.AddressComponent{
				component("Kyela", "locality", "political"),
				component("Kyela District", "administrative_area_level_2", "political"),
				component("Mbeya Region", "administrative_area_level_1", "political"),
			},
			expected: models.LocationRecord{Region: "Mbeya", District: "Kyela"},
		},
		{
			name:       "no components",
			components: nil,
			expected:   models.LocationRecord{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromAddressComponents(tc.components))
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", "TZ", nil)
	require.Error(t, err)

	g, err := New("test-key", "tz", nil)
	require.NoError(t, err)
	assert.Equal(t, "TZ", g.country)
}

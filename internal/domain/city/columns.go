package city

// Identifier columns.
const (
	ColCity        = "city"
	ColCountry     = "country"
	ColRegion      = "region"
	ColBudgetLevel = "budget_level"
)

// Activity score columns (0-100 after cleaning).
const (
	Culture   = "culture"
	Adventure = "adventure"
	Nature    = "nature"
	Beaches   = "beaches"
	Nightlife = "nightlife"
	Cuisine   = "cuisine"
	Wellness  = "wellness"
	Urban     = "urban"
	Seclusion = "seclusion"
)

// Geographic, climate, budget and distance columns.
const (
	Latitude          = "latitude"
	Longitude         = "longitude"
	AvgTempSummer     = "avg_temp_summer"
	AvgTempWinter     = "avg_temp_winter"
	BudgetNumeric     = "budget_numeric"
	AirportDistanceKm = "distance_to_airport_km"
)

// Boolean attribute columns stored as 0/1.
const (
	AlcoholFree      = "Alcohol-free"
	HalalFriendly    = "Halal-friendly"
	Safe             = "Safe"
	FamilyFriendly   = "family_friendly"
	AirportCloseness = "airport_closeness"
)

// Trip duration flag columns stored as 0/1.
const (
	ShortTrip = "short_trip"
	Weekend   = "weekend"
	LongTrip  = "long_trip"
	OneWeek   = "one_week"
	DayTrip   = "day_trip"
)

var activityColumns = []string{
	Culture, Adventure, Nature, Beaches, Nightlife,
	Cuisine, Wellness, Urban, Seclusion,
}

var booleanColumns = []string{
	AlcoholFree, HalalFriendly, Safe, FamilyFriendly, AirportCloseness,
}

var durationColumns = []string{
	ShortTrip, Weekend, LongTrip, OneWeek, DayTrip,
}

var continuousColumns = []string{
	Latitude, Longitude, AvgTempSummer, AvgTempWinter, BudgetNumeric, AirportDistanceKm,
}

// ActivityColumns returns the nine activity score columns in canonical order.
func ActivityColumns() []string { return clone(activityColumns) }

// BooleanColumns returns the boolean attribute columns usable as special filters.
func BooleanColumns() []string { return clone(booleanColumns) }

// DurationColumns returns the trip duration flag columns.
func DurationColumns() []string { return clone(durationColumns) }

// ContinuousColumns returns the non-activity numeric columns cleaned with mean fill.
func ContinuousColumns() []string { return clone(continuousColumns) }

// ClusterFeatures returns the canonical ordered feature list used for PCA and clustering.
func ClusterFeatures() []string {
	out := make([]string, 0, 25)
	out = append(out, activityColumns...)
	out = append(out, Latitude, Longitude)
	out = append(out, AvgTempSummer, AvgTempWinter)
	out = append(out, BudgetNumeric, AirportDistanceKm)
	out = append(out, booleanColumns...)
	out = append(out, ShortTrip, Weekend, LongTrip, OneWeek, DayTrip)
	return out
}

// SummaryColumns returns the columns averaged per cluster in a cluster summary.
func SummaryColumns() []string {
	out := make([]string, 0, 15)
	out = append(out, activityColumns...)
	out = append(out, Latitude, Longitude, AvgTempSummer, AvgTempWinter, BudgetNumeric, AirportDistanceKm)
	return out
}

// CharacteristicColumns returns the columns averaged in a cluster detail.
func CharacteristicColumns() []string {
	out := make([]string, 0, 12)
	out = append(out, activityColumns...)
	out = append(out, AvgTempSummer, AvgTempWinter, BudgetNumeric)
	return out
}

// SimilarityExtras are appended to the activity columns when building similarity vectors.
func SimilarityExtras() []string {
	return []string{BudgetNumeric, AvgTempSummer, AvgTempWinter}
}

// IsActivity reports whether name is one of the activity score columns.
func IsActivity(name string) bool { return contains(activityColumns, name) }

// IsBoolean reports whether name is a boolean attribute column.
func IsBoolean(name string) bool { return contains(booleanColumns, name) }

// IsDuration reports whether name is a trip duration flag column.
func IsDuration(name string) bool { return contains(durationColumns, name) }

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

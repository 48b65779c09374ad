// Package citytest builds deterministic city tables for tests.
package citytest

import (
	"fmt"
	"math/rand/v2"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
)

var (
	regions   = []string{"Europe", "Asia", "Africa", "North America", "South America", "Oceania"}
	countries = []string{"France", "Japan", "Kenya", "Canada", "Peru", "Australia"}
	budgets   = []city.Budget{city.BudgetLow, city.BudgetMid, city.BudgetHigh}
)

// Table returns n synthetic cities with every canonical column populated.
// The same n and seed always produce the same table.
func Table(n int, seed uint64) *city.Table {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([]city.Row, n)
	for i := range rows {
		g := i % len(regions)
		vals := make(map[string]float64)
		for _, a := range city.ActivityColumns() {
			vals[a] = float64(rng.IntN(101))
		}
		vals[city.Latitude] = rng.Float64()*140 - 70
		vals[city.Longitude] = rng.Float64()*340 - 170
		vals[city.AvgTempSummer] = 10 + rng.Float64()*25
		vals[city.AvgTempWinter] = -10 + rng.Float64()*25
		b := budgets[rng.IntN(len(budgets))]
		vals[city.BudgetNumeric] = b.Numeric()
		vals[city.AirportDistanceKm] = rng.Float64() * 80
		for _, c := range city.BooleanColumns() {
			vals[c] = float64(rng.IntN(2))
		}
		for _, c := range city.DurationColumns() {
			vals[c] = float64(rng.IntN(2))
		}
		r := city.NewRow(fmt.Sprintf("City%03d", i), countries[g], regions[g], vals)
		r.BudgetLevel = string(b)
		rows[i] = r
	}
	return city.NewTable(rows)
}

// Row builds a row with a budget label.
func Row(name, country, region string, budget city.Budget, vals map[string]float64) city.Row {
	r := city.NewRow(name, country, region, vals)
	r.BudgetLevel = string(budget)
	return r
}

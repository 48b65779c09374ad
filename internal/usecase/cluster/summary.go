package cluster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
)

// topCount is the number of countries and regions listed in a Detail.
const topCount = 5

// Summary holds per-cluster means of the summary columns.
type Summary struct {
	Cluster   int                `json:"cluster"`
	CityCount int                `json:"city_count"`
	Means     map[string]float64 `json:"means"`
}

// Count is a value with its occurrence count.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Member identifies a city inside a cluster.
type Member struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

// Detail describes one cluster.
type Detail struct {
	ClusterID    int                `json:"cluster_id"`
	CityCount    int                `json:"city_count"`
	TopCountries []Count            `json:"top_countries"`
	TopRegions   []Count            `json:"top_regions"`
	Averages     map[string]float64 `json:"averages"`
	Members      []Member           `json:"cities"`
}

// Summarize returns one summary per non-empty cluster in ascending id order.
// Only summary columns present in at least one row are averaged.
func Summarize(l Labeled) []Summary {
	cols := presentColumns(l.Rows, city.SummaryColumns())
	ids := clusterIDs(l.Labels)
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		members := l.Members(id)
		out = append(out, Summary{
			Cluster:   id,
			CityCount: len(members),
			Means:     means(l.Rows, members, cols, ""),
		})
	}
	return out
}

// Detail describes cluster id. The second result is false when no row
// carries that label.
func (l Labeled) Detail(id int) (Detail, bool) {
	members := l.Members(id)
	if len(members) == 0 {
		return Detail{}, false
	}
	countries := make([]string, len(members))
	regions := make([]string, len(members))
	list := make([]Member, len(members))
	for i, m := range members {
		r := l.Rows[m]
		countries[i], regions[i] = r.Country, r.Region
		list[i] = Member{City: r.City, Country: r.Country, Region: r.Region}
	}
	cols := presentColumns(l.Rows, city.CharacteristicColumns())
	return Detail{
		ClusterID:    id,
		CityCount:    len(members),
		TopCountries: top(countries, topCount),
		TopRegions:   top(regions, topCount),
		Averages:     means(l.Rows, members, cols, "avg_"),
		Members:      list,
	}, true
}

// top counts values and returns the n most frequent, first-seen order on ties.
func top(values []string, n int) []Count {
	idx := make(map[string]int)
	var counts []Count
	for _, v := range values {
		if i, ok := idx[v]; ok {
			counts[i].Count++
			continue
		}
		idx[v] = len(counts)
		counts = append(counts, Count{Name: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func means(rows []city.Row, members []int, cols []string, prefix string) map[string]float64 {
	out := make(map[string]float64, len(cols))
	vals := make([]float64, 0, len(members))
	for _, c := range cols {
		vals = vals[:0]
		for _, m := range members {
			if v := rows[m].Value(c); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		out[prefix+c] = stat.Mean(vals, nil)
	}
	return out
}

func presentColumns(rows []city.Row, declared []string) []string {
	tbl := city.NewTable(rows)
	present, _ := tbl.Available(declared)
	return present
}

func clusterIDs(labels []int) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		ids = append(ids, l)
	}
	sort.Ints(ids)
	return ids
}

package forecast

// DailySummary collapses one location's hourly rows for a single day
// into a planning-friendly digest.
type DailySummary struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	Hours            int     `json:"hours"`
	MinTemperatureC  float64 `json:"minTemperatureC"`
	MaxTemperatureC  float64 `json:"maxTemperatureC"`
	MaxPrecipProbPct float64 `json:"maxPrecipProbabilityPct"`
	TotalPrecipMM    float64 `json:"totalPrecipMm"`
	MeanCloudPct     float64 `json:"meanCloudCoverPct"`
}

// SummarizeDaily groups a flat hourly table by location name, preserving
// first-seen order, and reduces each group to a DailySummary. It is a
// downstream consumer of the table and never refetches anything.
func SummarizeDaily(obs []HourlyObservation) []DailySummary {
	var order []string
	groups := make(map[string][]HourlyObservation)

	for _, o := range obs {
		if _, seen := groups[o.Name]; !seen {
			order = append(order, o.Name)
		}
		groups[o.Name] = append(groups[o.Name], o)
	}

	out := make([]DailySummary, 0, len(order))
	for _, name := range order {
		rows := groups[name]

		s := DailySummary{
			Name:            name,
			Description:     rows[0].Description,
			Latitude:        rows[0].Latitude,
			Longitude:       rows[0].Longitude,
			Hours:           len(rows),
			MinTemperatureC: rows[0].TemperatureC,
			MaxTemperatureC: rows[0].TemperatureC,
		}

		var cloudSum float64
		for _, r := range rows {
			if r.TemperatureC < s.MinTemperatureC {
				s.MinTemperatureC = r.TemperatureC
			}
			if r.TemperatureC > s.MaxTemperatureC {
				s.MaxTemperatureC = r.TemperatureC
			}
			if r.PrecipProbPct > s.MaxPrecipProbPct {
				s.MaxPrecipProbPct = r.PrecipProbPct
			}
			s.TotalPrecipMM += r.PrecipMM
			cloudSum += r.CloudCoverPct
		}
		s.MeanCloudPct = cloudSum / float64(len(rows))

		out = append(out, s)
	}
	return out
}

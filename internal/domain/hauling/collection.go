package hauling

import "github.com/shopspring/decimal"

type Records []Record

func (rs Records) GroupByStatus() map[string]Records {
	out := make(map[string]Records)
	for _, r := range rs {
		out[r.Status] = append(out[r.Status], r)
	}
	return out
}

func (rs Records) GroupByDate() map[string]Records {
	out := make(map[string]Records)
	for _, r := range rs {
		out[r.Date] = append(out[r.Date], r)
	}
	return out
}

func (rs Records) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, r := range rs {
		total = total.Add(r.WeightTons)
	}
	return total
}

type Incidents []Incident

func (is Incidents) Unread() Incidents {
	var out Incidents
	for _, i := range is {
		if !i.IsRead {
			out = append(out, i)
		}
	}
	return out
}

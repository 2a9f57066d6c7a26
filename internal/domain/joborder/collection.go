package joborder

// JobOrders is a result-set view with grouping helpers for list pages.
type JobOrders []JobOrder

func (js JobOrders) GroupByServiceType() map[ServiceType]JobOrders {
	out := make(map[ServiceType]JobOrders)
	for _, j := range js {
		out[j.ServiceType] = append(out[j.ServiceType], j)
	}
	return out
}

func (js JobOrders) GroupByStatus() map[Status]JobOrders {
	out := make(map[Status]JobOrders)
	for _, j := range js {
		out[j.Status] = append(out[j.Status], j)
	}
	return out
}

// Partition splits the set into live and archived orders, preserving order.
func (js JobOrders) Partition() (active JobOrders, archived JobOrders) {
	for _, j := range js {
		if j.Archived() {
			archived = append(archived, j)
			continue
		}
		active = append(active, j)
	}
	return active, archived
}

func (js JobOrders) IDs() []uint64 {
	ids := make([]uint64, 0, len(js))
	for _, j := range js {
		ids = append(ids, j.ID)
	}
	return ids
}

package pipeline

import "github.com/Valentin39220/bini-crm/internal/prospects/domain"

// StatusBucket is one column of the pipeline board.
type StatusBucket struct {
	Status    domain.StatusDescriptor `json:"status"`
	Count     int                     `json:"count"`
	Prospects []domain.Prospect       `json:"prospects"`
}

// GroupByStatus partitions prospects into one bucket per status, in
// taxonomy order. Prospects with an unknown status land in no bucket.
func GroupByStatus(prospects []domain.Prospect) []StatusBucket {
	return group(prospects, domain.Statuses())
}

// PipelineBoard is GroupByStatus without the won and lost columns.
func PipelineBoard(prospects []domain.Prospect) []StatusBucket {
	return group(prospects, domain.PipelineStatuses())
}

func group(prospects []domain.Prospect, columns []domain.StatusDescriptor) []StatusBucket {
	out := make([]StatusBucket, 0, len(columns))
	for _, col := range columns {
		members := keep(prospects, func(p domain.Prospect) bool {
			return p.Status == col.ID
		})
		out = append(out, StatusBucket{Status: col, Count: len(members), Prospects: members})
	}
	return out
}

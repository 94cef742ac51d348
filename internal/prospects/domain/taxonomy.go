package domain

// StatusID identifies a stage of the sales process.
type StatusID string

const (
	StatusNew         StatusID = "new"
	StatusQualifying  StatusID = "qualifying"
	StatusProposal    StatusID = "proposal"
	StatusNegotiation StatusID = "negotiation"
	StatusWon         StatusID = "won"
	StatusLost        StatusID = "lost"
)

// TemperatureID is the qualitative interest level of a prospect.
type TemperatureID string

const (
	TemperatureCold TemperatureID = "cold"
	TemperatureWarm TemperatureID = "warm"
	TemperatureHot  TemperatureID = "hot"
)

type StatusDescriptor struct {
	ID        StatusID `json:"id"`
	Label     string   `json:"label"`
	VisualTag string   `json:"visualTag"`
}

type TemperatureDescriptor struct {
	ID        TemperatureID `json:"id"`
	Label     string        `json:"label"`
	VisualTag string        `json:"visualTag"`
	Glyph     string        `json:"glyph"`
}

// Canonical order matters: pipeline columns are rendered in this order.
var statuses = []StatusDescriptor{
	{ID: StatusNew, Label: "Nouveau", VisualTag: "bg-gray-500"},
	{ID: StatusQualifying, Label: "Qualification", VisualTag: "bg-blue-500"},
	{ID: StatusProposal, Label: "Proposition", VisualTag: "bg-yellow-500"},
	{ID: StatusNegotiation, Label: "Négociation", VisualTag: "bg-orange-500"},
	{ID: StatusWon, Label: "Gagné", VisualTag: "bg-green-500"},
	{ID: StatusLost, Label: "Perdu", VisualTag: "bg-red-500"},
}

var temperatures = []TemperatureDescriptor{
	{ID: TemperatureCold, Label: "Froid", VisualTag: "bg-blue-300", Glyph: "❄️"},
	{ID: TemperatureWarm, Label: "Tiède", VisualTag: "bg-yellow-300", Glyph: "🌤️"},
	{ID: TemperatureHot, Label: "Chaud", VisualTag: "bg-red-400", Glyph: "🔥"},
}

// Ids used by the first version of the app, still found in old payloads.
var legacyStatuses = map[string]StatusID{
	"nouveau":       StatusNew,
	"qualification": StatusQualifying,
	"proposition":   StatusProposal,
	"negociation":   StatusNegotiation,
	"gagne":         StatusWon,
	"perdu":         StatusLost,
}

var legacyTemperatures = map[string]TemperatureID{
	"froid": TemperatureCold,
	"tiede": TemperatureWarm,
	"chaud": TemperatureHot,
}

// Statuses returns every status descriptor in canonical order.
func Statuses() []StatusDescriptor {
	out := make([]StatusDescriptor, len(statuses))
	copy(out, statuses)
	return out
}

// PipelineStatuses returns the open statuses, i.e. the pipeline board columns.
func PipelineStatuses() []StatusDescriptor {
	out := make([]StatusDescriptor, 0, len(statuses))
	for _, s := range statuses {
		if !s.ID.IsClosed() {
			out = append(out, s)
		}
	}
	return out
}

func Temperatures() []TemperatureDescriptor {
	out := make([]TemperatureDescriptor, len(temperatures))
	copy(out, temperatures)
	return out
}

// ResolveStatus never fails: an unknown id resolves to the first status so
// that a corrupted record can still be displayed.
func ResolveStatus(id StatusID) StatusDescriptor {
	for _, s := range statuses {
		if s.ID == id {
			return s
		}
	}
	return statuses[0]
}

// ResolveTemperature never fails; see ResolveStatus.
func ResolveTemperature(id TemperatureID) TemperatureDescriptor {
	for _, t := range temperatures {
		if t.ID == id {
			return t
		}
	}
	return temperatures[0]
}

func IsKnownStatus(id StatusID) bool {
	for _, s := range statuses {
		if s.ID == id {
			return true
		}
	}
	return false
}

func IsKnownTemperature(id TemperatureID) bool {
	for _, t := range temperatures {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IsClosed reports whether the status is terminal (won or lost). Closed
// prospects are left out of every pipeline computation.
func (s StatusID) IsClosed() bool {
	return s == StatusWon || s == StatusLost
}

// NormalizeLegacyStatus maps legacy French ids onto canonical ids. Any other
// value is returned unchanged.
func NormalizeLegacyStatus(raw string) StatusID {
	if id, ok := legacyStatuses[raw]; ok {
		return id
	}
	return StatusID(raw)
}

func NormalizeLegacyTemperature(raw string) TemperatureID {
	if id, ok := legacyTemperatures[raw]; ok {
		return id
	}
	return TemperatureID(raw)
}

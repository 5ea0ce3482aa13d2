package query

// Default and ceiling page sizes. Limits above the ceiling are clamped, not
// rejected.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500

	DefaultSensorPageSize = 500
	MaxSensorPageSize     = 2000

	DefaultLatestPageSize    = 100
	DefaultTelemetryPageSize = 100
	DefaultSchedulePageSize  = 10
)

// Page carries pagination parameters. Zero values mean "use the default".
type Page struct {
	Limit  int
	Offset int
}

// Clamp normalizes the page against a default and a hard ceiling.
func (p Page) Clamp(def, max int) Page {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Meta describes one page of results. Count is the total number of rows
// matching the query's predicate with pagination removed; it never depends
// on Limit or Offset. Filter fields are echoed back when they were applied.
type Meta struct {
	Count    int    `json:"count"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Interval string `json:"interval,omitempty"`
}

// Paged is the envelope shared by every paginated query: page metadata plus
// at most Limit rows of data.
type Paged[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

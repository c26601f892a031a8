package model

// Question is the smallest assessable unit of the taxonomy.
// Its ID is unique within the owning Indicator only.
type Question struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Indicator is the unit a user selects for assessment.
// Its ID is unique across the whole taxonomy.
type Indicator struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Section is the mid-level grouping within a Dimension.
type Section struct {
	ID         string      `json:"id" yaml:"id"`
	Title      string      `json:"title" yaml:"title"`
	Indicators []Indicator `json:"indicators" yaml:"indicators"`
}

// Dimension is the top-level grouping of the taxonomy.
// Color is inherited, for display purposes, by every indicator nested below it.
type Dimension struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Color    string    `json:"color" yaml:"color"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// FlatQuestion is a question together with the indicator it belongs to.
// The questionnaire walks a list of these in taxonomy order.
type FlatQuestion struct {
	Question       Question
	IndicatorID    string
	IndicatorTitle string
	Color          string
}

// IndicatorRef locates an indicator in the taxonomy tree.
type IndicatorRef struct {
	Indicator      Indicator
	DimensionID    string
	DimensionTitle string
	SectionID      string
	SectionTitle   string
	Color          string
}

// Taxonomy is the read-only questionnaire structure with precomputed indexes.
//
// Design decision: The tree is walked exactly once, in NewTaxonomy. Every
// lookup afterwards (color, title, membership, ordering) is a map or slice
// access. This keeps the traversal logic in one place instead of repeating
// nested loops in every consumer.
type Taxonomy struct {
	dimensions []Dimension

	// order lists indicator ids in dimension → section → indicator order.
	order []string

	// refs maps indicator id to its position in the tree.
	refs map[string]IndicatorRef

	// questions maps indicator id to the set of its question ids.
	questions map[string]map[string]struct{}
}

// NewTaxonomy indexes the given dimensions.
// The slice is retained as-is; callers must not mutate it afterwards.
// When an indicator id appears twice, the first occurrence wins.
func NewTaxonomy(dimensions []Dimension) *Taxonomy {
	t := &Taxonomy{
		dimensions: dimensions,
		order:      make([]string, 0),
		refs:       make(map[string]IndicatorRef),
		questions:  make(map[string]map[string]struct{}),
	}

	for _, d := range dimensions {
		for _, s := range d.Sections {
			for _, ind := range s.Indicators {
				if _, dup := t.refs[ind.ID]; dup {
					continue
				}
				t.order = append(t.order, ind.ID)
				t.refs[ind.ID] = IndicatorRef{
					Indicator:      ind,
					DimensionID:    d.ID,
					DimensionTitle: d.Title,
					SectionID:      s.ID,
					SectionTitle:   s.Title,
					Color:          d.Color,
				}
				qs := make(map[string]struct{}, len(ind.Questions))
				for _, q := range ind.Questions {
					qs[q.ID] = struct{}{}
				}
				t.questions[ind.ID] = qs
			}
		}
	}

	return t
}

// Dimensions returns the taxonomy tree.
func (t *Taxonomy) Dimensions() []Dimension {
	return t.dimensions
}

// IndicatorIDs returns all indicator ids in traversal order.
func (t *Taxonomy) IndicatorIDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Indicator returns the indicator with the given id.
func (t *Taxonomy) Indicator(id string) (Indicator, bool) {
	ref, ok := t.refs[id]
	return ref.Indicator, ok
}

// Ref returns the tree position of the indicator with the given id.
func (t *Taxonomy) Ref(id string) (IndicatorRef, bool) {
	ref, ok := t.refs[id]
	return ref, ok
}

// HasIndicator reports whether id names an indicator of this taxonomy.
func (t *Taxonomy) HasIndicator(id string) bool {
	_, ok := t.refs[id]
	return ok
}

// HasQuestion reports whether questionID belongs to the indicator indicatorID.
func (t *Taxonomy) HasQuestion(indicatorID, questionID string) bool {
	qs, ok := t.questions[indicatorID]
	if !ok {
		return false
	}
	_, ok = qs[questionID]
	return ok
}

// DimensionColor returns the color of the dimension owning the indicator.
// The boolean is false for unknown ids.
func (t *Taxonomy) DimensionColor(indicatorID string) (string, bool) {
	ref, ok := t.refs[indicatorID]
	return ref.Color, ok
}

// Ordered filters ids down to known indicators and sorts them in traversal
// order. Duplicates collapse to one entry.
func (t *Taxonomy) Ordered(ids []string) []string {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]string, 0, len(want))
	for _, id := range t.order {
		if _, ok := want[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Questions flattens the questions of the given indicators in traversal order.
// Unknown ids are ignored.
func (t *Taxonomy) Questions(indicatorIDs []string) []FlatQuestion {
	var out []FlatQuestion
	for _, id := range t.Ordered(indicatorIDs) {
		ref := t.refs[id]
		for _, q := range ref.Indicator.Questions {
			out = append(out, FlatQuestion{
				Question:       q,
				IndicatorID:    id,
				IndicatorTitle: ref.Indicator.Title,
				Color:          ref.Color,
			})
		}
	}
	return out
}

// Len returns the number of indicators in the taxonomy.
func (t *Taxonomy) Len() int {
	return len(t.order)
}

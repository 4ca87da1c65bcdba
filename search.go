package direct

import (
	"net/url"
	"strconv"
)

// SearchQuery filters a beatmap search. The zero value matches everything
// and lets the mirror pick its default page size.
type SearchQuery struct {
	// Query is free text matched against titles, artists, creators and tags.
	Query  string       `json:"query"`
	Limit  int          `json:"limit" validate:"gte=0"`
	Offset int          `json:"offset" validate:"gte=0"`
	Ranked []RankStatus `json:"ranked" validate:"dive,gte=-2,lte=4"`
	Mode   *Mode        `json:"mode" validate:"omitempty,gte=0,lte=3"`
	// Sort keys are passed through, e.g. "ranked_date:desc".
	Sort []string `json:"sort" validate:"dive,required"`
}

// Values encodes q as the search endpoint's query string. Ranked and Sort
// repeat their key once per element; zero-valued scalars are omitted.
func (q *SearchQuery) Values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}

	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	for _, r := range q.Ranked {
		v.Add("status", strconv.Itoa(int(r)))
	}
	if q.Mode != nil {
		v.Set("mode", strconv.Itoa(int(*q.Mode)))
	}
	for _, s := range q.Sort {
		v.Add("sort", s)
	}

	return v
}

// Validate reports every invalid field as [FieldErrors].
func (q *SearchQuery) Validate() error {
	if q == nil {
		return nil
	}

	return check(q)
}

package direct_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/osudirect/direct"
)

func TestSearchQuery_Values(t *testing.T) {
	taiko := direct.ModeTaiko
	osu := direct.ModeOsu

	testCases := map[string]struct {
		query *direct.SearchQuery
		exp   url.Values
	}{
		"nil": {
			query: nil,
			exp:   url.Values{},
		},
		"zero": {
			query: &direct.SearchQuery{},
			exp:   url.Values{},
		},
		"text": {
			query: &direct.SearchQuery{Query: "freedom dive"},
			exp:   url.Values{"q": {"freedom dive"}},
		},
		"paging": {
			query: &direct.SearchQuery{Limit: 25, Offset: 75},
			exp:   url.Values{"limit": {"25"}, "offset": {"75"}},
		},
		"repeatedStatus": {
			query: &direct.SearchQuery{Ranked: []direct.RankStatus{direct.Graveyard, direct.Qualified, direct.Loved}},
			exp:   url.Values{"status": {"-2", "3", "4"}},
		},
		"modeZeroIsSent": {
			query: &direct.SearchQuery{Mode: &osu},
			exp:   url.Values{"mode": {"0"}},
		},
		"everything": {
			query: &direct.SearchQuery{
				Query:  "camellia",
				Limit:  10,
				Ranked: []direct.RankStatus{direct.Ranked},
				Mode:   &taiko,
				Sort:   []string{"plays:desc"},
			},
			exp: url.Values{
				"q":      {"camellia"},
				"limit":  {"10"},
				"status": {"1"},
				"mode":   {"1"},
				"sort":   {"plays:desc"},
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.exp, tc.query.Values()); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchQuery_Validate(t *testing.T) {
	if err := (*direct.SearchQuery)(nil).Validate(); err != nil {
		t.Errorf("nil query: exp nil err, got: %v", err)
	}

	mania := direct.ModeMania
	valid := &direct.SearchQuery{
		Query:  "x",
		Limit:  5000,
		Ranked: []direct.RankStatus{direct.Graveyard, direct.Loved},
		Mode:   &mania,
		Sort:   []string{"title:asc"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid query: exp nil err, got: %v", err)
	}

	err := (&direct.SearchQuery{Limit: -5, Offset: -1}).Validate()

	var fields direct.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("exp FieldErrors, got: %v", err)
	}

	got := make([]string, len(fields))
	for i, f := range fields {
		got[i] = f.Field
		if f.Err == "" {
			t.Errorf("field %q has no message", f.Field)
		}
	}
	if diff := cmp.Diff([]string{"limit", "offset"}, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

package espn

import (
	sonic "github.com/bytedance/sonic"
)

// The provider filters server-side through a JSON document passed in
// the x-fantasy-filter request header.
const headerFantasyFilter = "x-fantasy-filter"

type sortSpec struct {
	SortPriority int  `json:"sortPriority"`
	SortAsc      bool `json:"sortAsc"`
}

type valueFilter[T any] struct {
	Value T `json:"value"`
}

type dateRangeFilter struct {
	Value           int64 `json:"value"`
	AdditionalValue int64 `json:"additionalValue"`
}

type topicsFilter struct {
	FilterType                  valueFilter[[]string] `json:"filterType"`
	Limit                       int                   `json:"limit"`
	LimitPerMessageSet          valueFilter[int]      `json:"limitPerMessageSet"`
	Offset                      int                   `json:"offset"`
	SortMessageDate             sortSpec              `json:"sortMessageDate"`
	SortFor                     sortSpec              `json:"sortFor"`
	FilterIncludeMessageTypeIds valueFilter[[]int]    `json:"filterIncludeMessageTypeIds"`
	FilterDateRange             dateRangeFilter       `json:"filterDateRange"`
}

// messageFilter selects transaction messages of the given types inside
// [earliest, latest], ordered by date and then by team.
func messageFilter(earliest, latest int64, typeIDs []int) (string, error) {
	doc := struct {
		Topics topicsFilter `json:"topics"`
	}{
		Topics: topicsFilter{
			FilterType:                  valueFilter[[]string]{Value: []string{"ACTIVITY_TRANSACTIONS"}},
			Limit:                       50,
			LimitPerMessageSet:          valueFilter[int]{Value: 25},
			SortMessageDate:             sortSpec{SortPriority: 1, SortAsc: true},
			SortFor:                     sortSpec{SortPriority: 2, SortAsc: true},
			FilterIncludeMessageTypeIds: valueFilter[[]int]{Value: typeIDs},
			FilterDateRange:             dateRangeFilter{Value: earliest, AdditionalValue: latest},
		},
	}

	raw, err := sonic.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// playerFilter restricts the league-wide player feed to active players.
func playerFilter() (string, error) {
	doc := struct {
		Players struct {
			FilterActive valueFilter[bool] `json:"filterActive"`
		} `json:"players"`
	}{}
	doc.Players.FilterActive.Value = true

	raw, err := sonic.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

package stats

import (
	"context"

	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Profile model.Profile
	Results []model.Result
	Window  []model.Result
	Summary Summary
}

// BuildReport loads a user's profile and the results matching filter.
// Window holds the trailing results used for the curve moving average.
func BuildReport(ctx context.Context, st *store.Store, userID int64, filter model.HistoryFilter, window int) (Report, error) {
	profile, err := st.GetProfile(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	results, err := st.ListResults(ctx, userID, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Profile: profile,
		Results: results,
		Window:  lastResults(results, window),
		Summary: Summarize(results),
	}, nil
}

func lastResults(results []model.Result, window int) []model.Result {
	if window <= 0 || len(results) <= window {
		return results
	}
	return results[len(results)-window:]
}

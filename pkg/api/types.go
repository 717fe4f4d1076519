package api

import (
	"github.com/platinummonkey/tally/pkg/storage"
)

// userSummary is the public view of an account: what registration echoes
// back and what the admin listing shows. No timestamps, no hash.
type userSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserSummary(user *storage.User) userSummary {
	return userSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role.String(),
	}
}

// userDetails extends the summary with the account creation time,
// formatted "2006-01-02 15:04:05" in UTC.
type userDetails struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

const createdAtLayout = "2006-01-02 15:04:05"

func newUserDetails(user *storage.User) userDetails {
	return userDetails{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt.UTC().Format(createdAtLayout),
	}
}

// recordResponse is the public view of a financial record. The owning
// user ID and the insertion timestamp stay internal.
type recordResponse struct {
	ID       int64   `json:"id"`
	Month    string  `json:"month"`
	Year     int     `json:"year"`
	PaidIn   float64 `json:"paid_in"`
	Balance  float64 `json:"balance"`
	Loaned   float64 `json:"loaned"`
	Repaid   float64 `json:"repaid"`
	Shares   float64 `json:"shares"`
	Interest float64 `json:"interest"`
}

func newRecordResponse(record *storage.FinancialRecord) recordResponse {
	return recordResponse{
		ID:       record.ID,
		Month:    record.Month,
		Year:     record.Year,
		PaidIn:   record.PaidIn,
		Balance:  record.Balance,
		Loaned:   record.Loaned,
		Repaid:   record.Repaid,
		Shares:   record.Shares,
		Interest: record.Interest,
	}
}

// newRecordResponses never returns nil; an empty list serializes as [].
func newRecordResponses(records []*storage.FinancialRecord) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, newRecordResponse(record))
	}
	return out
}

// graphData is the chart-ready series for the caller's records: one
// label per distinct "<Month> <Year>", values aligned by index.
type graphData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

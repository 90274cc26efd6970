package round

import "github.com/KirkDiggler/lottery/internal/models"

type SaveRoundInput struct {
	Round *models.Round
}

type GetRoundInput struct {
	LotteryID string
}

type AddResultInput struct {
	Result *models.RoundResult
}

type ListResultsInput struct {
	LotteryID string

	// Limit caps the number of results. Zero means all.
	Limit int
}

type ListResultsOutput struct {
	Results []*models.RoundResult
}

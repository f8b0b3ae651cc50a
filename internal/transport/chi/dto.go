package chi

import (
	dombatch "github.com/kailas-cloud/simrec/internal/domain/batch"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

type recommendRequest struct {
	Ref   string `json:"ref"`
	Limit int    `json:"limit"`
}

type recommendationItem struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Row   int      `json:"row"`
	Score *float64 `json:"score"`
}

type recommendResponse struct {
	Result []recommendationItem `json:"result"`
}

type batchRequest struct {
	Refs  []string `json:"refs"`
	Limit int      `json:"limit"`
}

type batchResultItem struct {
	Ref    string               `json:"ref"`
	Status string               `json:"status"`
	Result []recommendationItem `json:"result,omitempty"`
	Error  *errorResponse       `json:"error,omitempty"`
}

type batchResponse struct {
	Items     []batchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// legacyItem keeps the capitalized keys of the original JSON endpoint.
type legacyItem struct {
	Title string `json:"Title"`
	URL   string `json:"URL"`
}

type legacyResponse struct {
	Result []legacyItem `json:"Result"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func recommendResponseFrom(items []recommendation.Item) recommendResponse {
	out := make([]recommendationItem, len(items))
	for i, it := range items {
		out[i] = recommendationItem{
			Title: it.Title,
			URL:   it.URL,
			Row:   it.Row,
			Score: it.FiniteScore(),
		}
	}
	return recommendResponse{Result: out}
}

func legacyResponseFrom(items []recommendation.Item) legacyResponse {
	out := make([]legacyItem, len(items))
	for i, it := range items {
		out[i] = legacyItem{Title: it.Title, URL: it.URL}
	}
	return legacyResponse{Result: out}
}

func batchResultFrom(r dombatch.Result) batchResultItem {
	item := batchResultItem{
		Ref:    r.Ref(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &errorResponse{
			Code:    batchErrorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
		return item
	}
	item.Result = recommendResponseFrom(r.Items()).Result
	return item
}

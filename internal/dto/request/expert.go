package request

type ListExpertsRequest struct {
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
}

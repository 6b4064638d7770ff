package upstream

// Envelope is the wrapper the mock employee API puts around every payload.
type Envelope[T any] struct {
	Data   *T      `json:"data"`
	Status string  `json:"status"`
	Error  *string `json:"error"`
}

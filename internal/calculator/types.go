package calculator

// CalcRequest is the JSON body for the per-operation endpoints
// (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalculateRequest is the JSON body for POST /calculator/calculate.
type CalculateRequest struct {
	Op string  `json:"op"` // "+", "-", "*", "/" or the operation name
	A  float64 `json:"a"`
	B  float64 `json:"b"`
}

// CalcResponse is the JSON response for all calculator endpoints.
type CalcResponse struct {
	Operation string  `json:"operation"`
	Op        string  `json:"op"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
}

package models

type ParsePDFResponse struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	Result *AnalysisResult `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

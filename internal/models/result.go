package models

type AnalyzeResponse struct {
	TaskID  string            `json:"task_id"`
	Results []CandidateResult `json:"results"`
}

type CandidateResult struct {
	Candidate int    `json:"candidate"`
	Result    string `json:"result"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

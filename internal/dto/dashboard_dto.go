package dto

type AgentValueResponse struct {
	AgentName string  `json:"agent_name"`
	Total     float64 `json:"total"`
}

type DashboardSummaryResponse struct {
	PipelineValue float64              `json:"pipeline_value"`
	WonThisMonth  int                  `json:"won_this_month"`
	ActiveCount   int                  `json:"active_count"`
	ValueByAgent  []AgentValueResponse `json:"value_by_agent"`
	Agents        []string             `json:"agents"`
}

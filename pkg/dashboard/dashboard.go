// Package dashboard derives the hub's KPI tiles, chart series, and filtered
// grid rows from the cached project collection. Every function is pure.
package dashboard

import (
	"strings"
	"time"

	"commercial-hub-be/internal/entity"
)

// AgentFilterAll passes every agent through FilterProjects.
const AgentFilterAll = "all"

// AgentValue is one bar of the value-by-agent chart.
type AgentValue struct {
	AgentName string  `json:"agent_name"`
	Total     float64 `json:"total"`
}

// Summary bundles every dashboard derivation for a single response.
type Summary struct {
	PipelineValue float64      `json:"pipeline_value"`
	WonThisMonth  int          `json:"won_this_month"`
	ActiveCount   int          `json:"active_count"`
	ValueByAgent  []AgentValue `json:"value_by_agent"`
	Agents        []string     `json:"agents"`
}

// FilterProjects narrows projects by a case-insensitive substring match of
// search against client or project name, ANDed with an exact agent match.
// agent of AgentFilterAll (or empty) passes everything.
func FilterProjects(projects []*entity.Project, search, agent string) []*entity.Project {
	needle := strings.ToLower(strings.TrimSpace(search))
	matchAgent := agent != "" && agent != AgentFilterAll

	filtered := make([]*entity.Project, 0, len(projects))
	for _, project := range projects {
		if matchAgent && project.AgentName != agent {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(project.ClientName), needle) &&
			!strings.Contains(strings.ToLower(project.ProjectName), needle) {
			continue
		}
		filtered = append(filtered, project)
	}
	return filtered
}

// DistinctAgents collapses agent names to a unique list in first-seen order.
func DistinctAgents(projects []*entity.Project) []string {
	seen := make(map[string]struct{}, len(projects))
	agents := make([]string, 0, len(projects))
	for _, project := range projects {
		if _, ok := seen[project.AgentName]; ok {
			continue
		}
		seen[project.AgentName] = struct{}{}
		agents = append(agents, project.AgentName)
	}
	return agents
}

// PipelineValue sums value over Open and Negotiation projects.
func PipelineValue(projects []*entity.Project) float64 {
	var total float64
	for _, project := range projects {
		if project.InPipeline() {
			total += project.Value
		}
	}
	return total
}

// WonThisMonth counts Won projects created in the same calendar month and
// year as ref.
func WonThisMonth(projects []*entity.Project, ref time.Time) int {
	count := 0
	for _, project := range projects {
		if project.Status != entity.StatusWon {
			continue
		}
		if project.CreatedAt.IsZero() {
			continue
		}
		if project.CreatedAt.Year() == ref.Year() && project.CreatedAt.Month() == ref.Month() {
			count++
		}
	}
	return count
}

// ActiveCount counts everything not explicitly Lost. Unrecognized statuses
// count as active.
func ActiveCount(projects []*entity.Project) int {
	count := 0
	for _, project := range projects {
		if project.Status != entity.StatusLost {
			count++
		}
	}
	return count
}

// ValueByAgent sums value per agent across all statuses, one entry per agent
// in first-seen order.
func ValueByAgent(projects []*entity.Project) []AgentValue {
	index := make(map[string]int, len(projects))
	series := make([]AgentValue, 0, len(projects))
	for _, project := range projects {
		i, ok := index[project.AgentName]
		if !ok {
			i = len(series)
			index[project.AgentName] = i
			series = append(series, AgentValue{AgentName: project.AgentName})
		}
		series[i].Total += project.Value
	}
	return series
}

// Summarize computes the full dashboard view in one pass set.
func Summarize(projects []*entity.Project, ref time.Time) Summary {
	return Summary{
		PipelineValue: PipelineValue(projects),
		WonThisMonth:  WonThisMonth(projects, ref),
		ActiveCount:   ActiveCount(projects),
		ValueByAgent:  ValueByAgent(projects),
		Agents:        DistinctAgents(projects),
	}
}

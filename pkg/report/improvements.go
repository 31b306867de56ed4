package report

import (
	"strings"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
)

// improvement suggestions keyed by a criterion-name fragment. Zero-score
// criteria get the stronger "add it" wording; criteria below half marks get
// the "improve it" wording.
var zeroScoreSuggestions = []struct{ fragment, suggestion string }{
	{"problem description", "Add a clear problem description to your README explaining what problem the project solves"},
	{"retrieval flow", "Implement a knowledge base and LLM-based retrieval system"},
	{"retrieval evaluation", "Add evaluation of different retrieval approaches and compare their performance"},
	{"llm evaluation", "Implement evaluation of LLM outputs with multiple approaches or prompts"},
	{"interface", "Create a user interface (CLI, web app, or API) for interacting with the application"},
	{"ingestion", "Add an automated data ingestion pipeline using scripts or specialized tools"},
	{"monitoring", "Implement monitoring with user feedback collection and/or dashboard"},
	{"containerization", "Add Docker containerization with Dockerfile and docker-compose configuration"},
	{"reproducibility", "Add clear setup instructions, specify dependency versions, and ensure data accessibility"},
	{"best practices", "Implement advanced techniques like hybrid search, document re-ranking, or query rewriting"},
}

var lowScoreSuggestions = []struct{ fragment, suggestion string }{
	{"problem description", "Enhance the problem description with more detail and clarity"},
	{"retrieval flow", "Consider adding a knowledge base to complement direct LLM querying"},
	{"interface", "Upgrade from CLI/script to a web application or API for better user experience"},
	{"ingestion", "Automate the data ingestion process with scripts or specialized tools"},
	{"monitoring", "Add both user feedback collection AND a comprehensive monitoring dashboard"},
	{"containerization", "Complete Docker setup with both application and dependencies in docker-compose"},
	{"reproducibility", "Improve documentation completeness and ensure all dependencies are properly specified"},
}

// Improvements derives suggestions from results that lost points, in result
// order with duplicates removed.
func Improvements(results []criteria.EvaluationResult) []string {
	var improvements []string
	seen := make(map[string]bool)

	add := func(suggestion string) {
		if !seen[suggestion] {
			seen[suggestion] = true
			improvements = append(improvements, suggestion)
		}
	}

	for _, result := range results {
		name := strings.ToLower(result.CriteriaName)
		switch {
		case result.Score == 0:
			for _, entry := range zeroScoreSuggestions {
				if strings.Contains(name, entry.fragment) {
					add(entry.suggestion)
					break
				}
			}
		case float64(result.Score) < float64(result.MaxScore)*0.5:
			for _, entry := range lowScoreSuggestions {
				if strings.Contains(name, entry.fragment) {
					add(entry.suggestion)
					break
				}
			}
		}
	}

	return improvements
}

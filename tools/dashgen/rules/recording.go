package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("partsearch-recording-rules", []RuleGroup{
		{
			Name: "partsearch-recording",
			Rules: []Rule{
				{
					Record: "partsearch:api_calls:rate5m",
					Expr:   `sum by (endpoint) (rate(partsearch_api_calls_total[5m]))`,
				},
				{
					Record: "partsearch:api_errors:rate5m",
					Expr:   `sum by (endpoint) (rate(partsearch_api_calls_total{status!="200"}[5m]))`,
				},
				{
					Record: "partsearch:validation_failures:rate5m",
					Expr:   `sum by (kind) (rate(partsearch_validation_failures_total[5m]))`,
				},
				{
					Record: "partsearch:http_requests:rate5m",
					Expr:   `sum(rate(partsearch_http_requests_total[5m]))`,
				},
				{
					Record: "partsearch:http_errors:rate5m",
					Expr:   `sum(rate(partsearch_http_requests_total{status=~"5.."}[5m]))`,
				},
			},
		},
	})
}

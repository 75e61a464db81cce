package rules

import "fmt"

// AlertRules returns a PrometheusRule CR containing alert rules for the
// Octopart client and the mock server. dailyLimit scales the quota alert.
func AlertRules(dailyLimit int) PrometheusRule {
	return newPrometheusRule("partsearch-alerts", []RuleGroup{
		{
			Name: "partsearch-alerts",
			Rules: []Rule{
				{
					Alert: "PartsearchMockDown",
					Expr:  `absent(up{job="partsearch-mock"})`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Octopart mock server is down",
						"description": "The partsearch-mock job has been absent for more than 2 minutes.",
					},
				},
				{
					Alert: "PartsearchAPIErrorRate",
					Expr:  `sum(partsearch:api_errors:rate5m) / sum(partsearch:api_calls:rate5m) > 0.05`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "High Octopart API error rate",
						"description": "More than 5% of Octopart calls failed over the last 5 minutes.",
					},
				},
				{
					Alert: "PartsearchServiceUnavailable",
					Expr:  `increase(partsearch_api_calls_total{status="503"}[5m]) > 0`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Octopart answers 503",
						"description": "The Octopart API has been reporting service unavailable for 5 minutes.",
					},
				},
				{
					Alert: "PartsearchValidationFailures",
					Expr:  `sum(partsearch:validation_failures:rate5m) > 0.1`,
					For:   "15m",
					Labels: map[string]string{
						"severity": "info",
					},
					Annotations: map[string]string{
						"summary":     "Callers keep sending invalid arguments",
						"description": "Calls are being rejected by argument validation at more than 0.1/s.",
					},
				},
				{
					Alert: "PartsearchQuotaHigh",
					Expr:  fmt.Sprintf(`max(partsearch_daily_usage) > %d`, dailyLimit*8/10),
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Octopart daily usage is above 80% of the quota",
						"description": fmt.Sprintf("Daily Octopart usage has exceeded %d calls (limit is %d).", dailyLimit*8/10, dailyLimit),
					},
				},
				{
					Alert: "PartsearchDailyLimitReached",
					Expr:  `increase(partsearch_daily_limit_hits_total[5m]) > 0`,
					For:   "0m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Octopart daily limit has been reached",
						"description": "The daily call quota is exhausted. Calls fail until the window resets.",
					},
				},
				{
					Alert: "PartsearchMockHighErrorRate",
					Expr:  `partsearch:http_errors:rate5m / partsearch:http_requests:rate5m > 0.05`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "info",
					},
					Annotations: map[string]string{
						"summary":     "Mock server is answering 5xx",
						"description": "More than 5% of mock server requests returned 5xx. Check whether maintenance mode was left on.",
					},
				},
			},
		},
	})
}

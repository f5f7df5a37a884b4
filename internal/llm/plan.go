package llm

import "time"

// ModelAttempt pairs a provider model identifier with the wall-clock budget
// for one call to it.
type ModelAttempt struct {
	Model   string
	Timeout time.Duration
}

var (
	textPlan = []ModelAttempt{
		{Model: "gemini-3-flash-preview", Timeout: 10 * time.Second},
		{Model: "gemini-2.5-flash", Timeout: 10 * time.Second},
	}
	filePlan = []ModelAttempt{
		{Model: "gemini-2.5-pro", Timeout: 20 * time.Second},
		{Model: "gemini-3-flash-preview", Timeout: 15 * time.Second},
		{Model: "gemini-2.5-flash", Timeout: 15 * time.Second},
	}
	pdfPlan = []ModelAttempt{
		{Model: "gemini-2.5-pro", Timeout: 45 * time.Second},
		{Model: "gemini-2.5-flash", Timeout: 30 * time.Second},
	}
)

// PlanFor selects the ordered model attempts for a request. Text-only
// requests go to the fast models with short budgets; uploads go to the more
// capable model first, with long budgets for PDFs since the provider needs
// noticeably more time on them.
func PlanFor(hasFile, isPDF bool) []ModelAttempt {
	switch {
	case hasFile && isPDF:
		return pdfPlan
	case hasFile:
		return filePlan
	default:
		return textPlan
	}
}

// attemptsFor returns the number of full passes over the plan. Multimodal
// calls are empirically less stable, so uploads get a second pass.
func attemptsFor(hasFile bool) int {
	if hasFile {
		return 2
	}
	return 1
}

// MaxRequestBudget is the worst-case wall-clock time one request can spend in
// Generate: every model in the slowest plan failing on every pass, plus the
// backoff between passes. The server's request timeout must sit above this, or
// the middleware would cut off a request the fallback machine still considers
// live.
func MaxRequestBudget() time.Duration {
	var worst time.Duration
	for _, hasFile := range []bool{false, true} {
		for _, isPDF := range []bool{false, true} {
			var planTotal time.Duration
			for _, attempt := range PlanFor(hasFile, isPDF) {
				planTotal += attempt.Timeout
			}
			attempts := attemptsFor(hasFile)
			total := time.Duration(attempts) * planTotal
			for i := 1; i < attempts; i++ {
				total += backoffBase << (i - 1)
			}
			if total > worst {
				worst = total
			}
		}
	}
	return worst
}

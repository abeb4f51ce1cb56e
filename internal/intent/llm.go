package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/llm"
	"bookbot/internal/schedule"
)

const systemPrompt = "You are the intent extractor for an appointment-booking " +
	"assistant. You reply with a single JSON object and nothing else."

// LLMExtractor asks the model for a JSON intent description. The prompt
// carries today's date so the model resolves relative phrases itself;
// anything the model gets wrong falls back to keyword matching rather
// than surfacing an error.
type LLMExtractor struct {
	client   llm.Client
	rules    schedule.Rules
	fallback KeywordExtractor
	log      *zap.Logger
	now      func() time.Time
}

func NewLLMExtractor(client llm.Client, rules schedule.Rules, log *zap.Logger) *LLMExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMExtractor{
		client: client,
		rules:  rules,
		log:    log,
		now:    time.Now,
	}
}

func (e *LLMExtractor) Extract(ctx context.Context, message string) (Result, error) {
	out, err := e.client.Complete(ctx, systemPrompt, e.prompt(message))
	if err != nil {
		e.log.Warn("intent model call failed, using keyword fallback", zap.Error(err))
		return e.fallback.Extract(ctx, message)
	}

	res, ok := parseResult(out)
	if !ok {
		e.log.Warn("intent model returned no usable JSON, using keyword fallback",
			zap.String("output", truncate(out, 200)))
		return e.fallback.Extract(ctx, message)
	}
	if !knownIntent(res.Intent) {
		res.Intent = IntentGeneral
	}
	e.log.Debug("intent extracted",
		zap.String("intent", res.Intent),
		zap.String("date", res.Date),
		zap.String("time", res.Time))
	return res, nil
}

func (e *LLMExtractor) prompt(message string) string {
	today := e.now().In(e.rules.Location)
	return fmt.Sprintf(`Extract appointment information from: %q

CURRENT CONTEXT:
- Today is %s (%s)
- Tomorrow is %s

BUSINESS RULES:
- Working hours: %s
- Appointments run on working days only

Convert ALL date expressions to YYYY-MM-DD and times to 24-hour HH:MM.

Return ONLY this JSON:
{
  "intent": "%s|%s|%s|%s",
  "date": "YYYY-MM-DD or empty",
  "time": "HH:MM or empty",
  "duration_minutes": 60,
  "title": "short event title or empty",
  "confidence": "high|medium|low"
}`,
		message,
		today.Format("2006-01-02"), today.Weekday(),
		today.AddDate(0, 0, 1).Format("2006-01-02"),
		e.rules.HoursDisplay(),
		IntentBook, IntentAvailability, IntentCancel, IntentGeneral)
}

// parseResult pulls the first {...} block out of the model output.
// Models wrap JSON in prose often enough that strict decoding alone is
// not an option.
func parseResult(out string) (Result, bool) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal([]byte(out[start:end+1]), &res); err != nil {
		return Result{}, false
	}
	if res.Intent == "" {
		return Result{}, false
	}
	return res, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

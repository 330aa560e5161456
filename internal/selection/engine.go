// Package selection picks the next batch of questions under competing
// constraints: level mix, topic diversity, recency and prior performance.
package selection

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"learnitalian/internal/domain"
	"learnitalian/internal/estimator"
	"learnitalian/internal/scoring"
)

// Batch size bounds, matching the caller-facing defaults.
const (
	DefaultBatchSize = 10
	MaxBatchSize     = 50
)

// oversampleFactor bounds how many candidates are scored per slot.
const oversampleFactor = 3

// Priority factors. The values are heuristic constants tuned against real
// usage; keep them named so they can be revisited independently of the
// algorithm's structure.
const (
	// topic weakness
	weaknessBoost  = 3.0
	weaknessCutoff = 0.70

	// freshness by age of last exposure
	freshnessNeverSeen = 2.0
	freshnessStale     = 1.8 // over 30 days
	freshnessMonth     = 1.5 // 7-30 days
	freshnessWeek      = 1.2 // 1-7 days
	freshnessToday     = 0.3 // under a day

	// prior performance on the question itself
	performanceNew     = 1.5
	performanceStrong  = 0.4 // at least 3 attempts, 80%+ correct
	performanceWeak    = 0.6 // more wrong than right
	performanceNeutral = 1.0

	strongAttemptFloor = 3
	strongSuccessRate  = 0.8
)

// New-topic reservation thresholds on the rolling multi-quiz success rate.
const (
	bonusTopicHighRate  = 0.85
	bonusTopicMidRate   = 0.70
	bonusTopicHighSlots = 3
	bonusTopicMidSlots  = 2
	rollingSessionSpan  = 5
)

// nearEqualEpsilon groups candidates whose priorities are close enough to be
// shuffled rather than ordered deterministically.
const nearEqualEpsilon = 0.01

// Config carries the selection tunables.
type Config struct {
	PerTopicCap   int
	RecencyWindow time.Duration
}

// DefaultConfig returns the standard selection tunables.
func DefaultConfig() Config {
	return Config{
		PerTopicCap:   3,
		RecencyWindow: DefaultRecencyWindow,
	}
}

// Request describes one batch selection.
type Request struct {
	Count    int
	Level    domain.Level // optional override; empty means use the estimate
	Topic    string       // optional override; empty means diversify
	Freeform bool
}

// Engine selects question batches.
type Engine struct {
	questions domain.QuestionRepository
	perf      domain.PerformanceRepository
	events    domain.AnswerEventRepository
	sessions  domain.SessionRepository
	est       *estimator.Estimator
	scorer    *scoring.Scorer
	cfg       Config
	rng       *rand.Rand
}

// NewEngine creates a selection engine. The rand source must be provided so
// selection is reproducible under test.
func NewEngine(
	questions domain.QuestionRepository,
	perf domain.PerformanceRepository,
	events domain.AnswerEventRepository,
	sessions domain.SessionRepository,
	est *estimator.Estimator,
	scorer *scoring.Scorer,
	cfg Config,
	rng *rand.Rand,
) *Engine {
	if cfg.PerTopicCap <= 0 {
		cfg.PerTopicCap = DefaultConfig().PerTopicCap
	}
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = DefaultRecencyWindow
	}
	return &Engine{
		questions: questions,
		perf:      perf,
		events:    events,
		sessions:  sessions,
		est:       est,
		scorer:    scorer,
		cfg:       cfg,
		rng:       rng,
	}
}

// Select returns an ordered batch of at most req.Count questions, each tagged
// with its presentation modality. A pool too small for the request yields a
// short batch, never an error.
func (e *Engine) Select(ctx context.Context, req Request) ([]domain.SelectedQuestion, error) {
	n := req.Count
	if n <= 0 {
		n = DefaultBatchSize
	}
	if n > MaxBatchSize {
		n = MaxBatchSize
	}

	if req.Level != "" && (!req.Level.Valid() || req.Level == domain.LevelA0) {
		return nil, domain.NewInvalidLevelError(string(req.Level))
	}

	estimated, err := e.est.EstimatedLevel(ctx)
	if err != nil {
		return nil, err
	}
	target := req.Level
	if target == "" {
		target = estimated.Next()
	}

	b := &batch{
		topicCap:   e.cfg.PerTopicCap,
		chosenIDs:  make(map[string]struct{}),
		topicCount: make(map[string]int),
	}

	if req.Topic != "" {
		// Explicit topic override: single-level, single-topic batch with the
		// per-topic cap waived.
		b.topicCap = n
		if err := e.fillLevel(ctx, target, n, b, req.Topic); err != nil {
			return nil, err
		}
		return e.finish(b, req.Freeform), nil
	}

	coverage, err := e.scorer.Coverage(ctx, target)
	if err != nil {
		return nil, err
	}
	mastery, err := e.scorer.LevelMastery(ctx, target)
	if err != nil {
		return nil, err
	}
	dist := levelDistribution(target, estimated, coverage, mastery, n, e.rng)

	// Reserve slots for never-attempted topics when the learner is cruising
	// at the target level; a struggling learner consolidates instead.
	if err := e.reserveBonusTopics(ctx, target, n, b); err != nil {
		return nil, err
	}

	// Target level first, then spill levels in descending slot order so the
	// dominant bucket sets the topic spread. Reserved picks come out of the
	// target's allocation, and every bucket is clamped to the slots still
	// open so the batch never exceeds n.
	for _, level := range orderedLevels(dist, target) {
		slots := dist[level]
		if level == target {
			slots -= len(b.chosen)
		}
		if remaining := n - len(b.chosen); slots > remaining {
			slots = remaining
		}
		if slots <= 0 {
			continue
		}
		if err := e.fillLevel(ctx, level, slots, b, ""); err != nil {
			return nil, err
		}
	}

	// Backfill a short batch from adjacent levels.
	if len(b.chosen) < n {
		if err := e.backfill(ctx, target, n, b); err != nil {
			return nil, err
		}
	}

	return e.finish(b, req.Freeform), nil
}

// reserveBonusTopics introduces up to three never-attempted topics at the
// target level, gated by the rolling multi-quiz success rate.
func (e *Engine) reserveBonusTopics(ctx context.Context, target domain.Level, n int, b *batch) error {
	rate, err := e.rollingSuccessRate(ctx, target)
	if err != nil {
		return err
	}

	var reserve int
	switch {
	case rate >= bonusTopicHighRate:
		reserve = bonusTopicHighSlots
	case rate >= bonusTopicMidRate:
		reserve = bonusTopicMidSlots
	default:
		return nil
	}
	if reserve > n {
		reserve = n
	}

	topics, err := e.questions.TopicsByLevel(ctx, target)
	if err != nil {
		return err
	}
	answered, err := e.events.DistinctTopicsAnswered(ctx, target)
	if err != nil {
		return err
	}
	answeredSet := make(map[string]struct{}, len(answered))
	for _, t := range answered {
		answeredSet[t] = struct{}{}
	}

	var fresh []string
	for _, t := range topics {
		if _, ok := answeredSet[t]; !ok {
			fresh = append(fresh, t)
		}
	}
	e.rng.Shuffle(len(fresh), func(i, j int) { fresh[i], fresh[j] = fresh[j], fresh[i] })

	for _, topic := range fresh {
		if reserve == 0 {
			break
		}
		questions, err := e.questions.GetByLevelAndTopic(ctx, target, topic)
		if err != nil {
			return err
		}
		e.rng.Shuffle(len(questions), func(i, j int) { questions[i], questions[j] = questions[j], questions[i] })
		for _, q := range questions {
			if b.add(q) {
				reserve--
				break
			}
		}
	}
	return nil
}

// rollingSuccessRate is the level's success fraction over the events of the
// last few quiz sessions; 0 when there is no session history yet.
func (e *Engine) rollingSuccessRate(ctx context.Context, level domain.Level) (float64, error) {
	sessions, err := e.sessions.Recent(ctx, rollingSessionSpan)
	if err != nil {
		return 0, err
	}
	if len(sessions) == 0 {
		return 0, nil
	}
	cutoff := sessions[len(sessions)-1].CreatedAt
	rate, count, err := e.events.SuccessRateSince(ctx, level, cutoff)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return rate, nil
}

// fillLevel scores and greedily takes up to slots candidates from one level.
// A non-empty topic restricts the pool to that topic.
func (e *Engine) fillLevel(ctx context.Context, level domain.Level, slots int, b *batch, topic string) error {
	var pool []*domain.Question
	var err error
	if topic != "" {
		pool, err = e.questions.GetByLevelAndTopic(ctx, level, topic)
	} else {
		pool, err = e.questions.GetByLevel(ctx, level)
	}
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		return nil
	}

	statsByID, err := e.statsByQuestion(ctx, level)
	if err != nil {
		return err
	}
	topicStats, err := e.topicStatsByTopic(ctx, level)
	if err != nil {
		return err
	}
	filter, err := e.recencyFilter(ctx, level)
	if err != nil {
		return err
	}

	candidates := make([]*domain.Question, 0, len(pool))
	for _, q := range pool {
		if b.has(q.ID) || filter.Excluded(q.ID) || b.topicFull(q.Topic) {
			continue
		}
		candidates = append(candidates, q)
	}

	// Oversample: score a bounded, randomized subset rather than the whole
	// level.
	e.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if max := slots * oversampleFactor; len(candidates) > max {
		candidates = candidates[:max]
	}

	scored := make([]scoredQuestion, 0, len(candidates))
	for _, q := range candidates {
		scored = append(scored, scoredQuestion{
			question: q,
			priority: e.priority(q, statsByID[q.ID], topicStats[q.Topic]),
		})
	}
	e.rankWithJitter(scored)

	taken := 0
	for _, sq := range scored {
		if taken == slots {
			break
		}
		if b.add(sq.question) {
			taken++
		}
	}
	return nil
}

// priority combines topic weakness, freshness and prior performance into a
// single multiplicative weight.
func (e *Engine) priority(q *domain.Question, stats *domain.QuestionStats, topic *domain.TopicStats) float64 {
	weakness := 1.0
	if topic != nil && topic.WeightedCorrect+topic.WeightedIncorrect > 0 &&
		topic.SuccessRate() < weaknessCutoff {
		weakness = weaknessBoost
	}
	return weakness * freshness(stats) * performance(stats)
}

func freshness(stats *domain.QuestionStats) float64 {
	if stats == nil || stats.LastSeen.IsZero() {
		return freshnessNeverSeen
	}
	age := time.Since(stats.LastSeen)
	switch {
	case age > 30*24*time.Hour:
		return freshnessStale
	case age > 7*24*time.Hour:
		return freshnessMonth
	case age > 24*time.Hour:
		return freshnessWeek
	default:
		return freshnessToday
	}
}

func performance(stats *domain.QuestionStats) float64 {
	if stats == nil || stats.TotalAttempts() == 0 {
		return performanceNew
	}
	correct := stats.CorrectCount + stats.FreeformCorrectCount + stats.PartialCorrectCount
	incorrect := stats.IncorrectCount + stats.FreeformIncorrectCount
	switch {
	case correct+incorrect >= strongAttemptFloor && stats.SuccessRate() >= strongSuccessRate:
		return performanceStrong
	case incorrect > correct:
		return performanceWeak
	default:
		return performanceNeutral
	}
}

// rankWithJitter orders candidates by priority, shuffling within groups of
// near-equal score to avoid deterministic repetition across quizzes.
func (e *Engine) rankWithJitter(scored []scoredQuestion) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].priority > scored[j].priority
	})

	start := 0
	for i := 1; i <= len(scored); i++ {
		if i < len(scored) && math.Abs(scored[i].priority-scored[start].priority) < nearEqualEpsilon {
			continue
		}
		group := scored[start:i]
		e.rng.Shuffle(len(group), func(a, b int) { group[a], group[b] = group[b], group[a] })
		start = i
	}
}

// backfill tops up a short batch from the target level's remaining pool and
// then its adjacent levels, randomized, still honoring topic caps, recency
// and duplicate checks.
func (e *Engine) backfill(ctx context.Context, target domain.Level, n int, b *batch) error {
	levels := append([]domain.Level{target}, fallbackTable[target]...)
	for _, level := range levels {
		if len(b.chosen) == n {
			return nil
		}

		pool, err := e.questions.GetByLevel(ctx, level)
		if err != nil {
			return err
		}
		filter, err := e.recencyFilter(ctx, level)
		if err != nil {
			return err
		}

		e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, q := range pool {
			if len(b.chosen) == n {
				return nil
			}
			if filter.Excluded(q.ID) {
				continue
			}
			b.add(q)
		}
	}
	return nil
}

// finish shuffles the final order and tags each question with its modality.
func (e *Engine) finish(b *batch, freeform bool) []domain.SelectedQuestion {
	e.rng.Shuffle(len(b.chosen), func(i, j int) { b.chosen[i], b.chosen[j] = b.chosen[j], b.chosen[i] })

	modality := domain.ModalityMultipleChoice
	if freeform {
		modality = domain.ModalityFreeform
	}
	out := make([]domain.SelectedQuestion, 0, len(b.chosen))
	for _, q := range b.chosen {
		out = append(out, domain.SelectedQuestion{Question: q, Modality: modality})
	}
	return out
}

func (e *Engine) statsByQuestion(ctx context.Context, level domain.Level) (map[string]*domain.QuestionStats, error) {
	stats, err := e.perf.GetStatsByLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.QuestionStats, len(stats))
	for _, st := range stats {
		byID[st.QuestionID] = st
	}
	return byID, nil
}

func (e *Engine) topicStatsByTopic(ctx context.Context, level domain.Level) (map[string]*domain.TopicStats, error) {
	stats, err := e.perf.GetTopicStatsByLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	byTopic := make(map[string]*domain.TopicStats, len(stats))
	for _, st := range stats {
		byTopic[st.Topic] = st
	}
	return byTopic, nil
}

func (e *Engine) recencyFilter(ctx context.Context, level domain.Level) (*RecencyFilter, error) {
	latest, err := e.events.LatestPerQuestion(ctx, level)
	if err != nil {
		return nil, err
	}
	return NewRecencyFilter(latest, e.cfg.RecencyWindow, time.Now()), nil
}

// orderedLevels returns the distribution's levels with the target first and
// the rest by descending slot count.
func orderedLevels(dist map[domain.Level]int, target domain.Level) []domain.Level {
	levels := make([]domain.Level, 0, len(dist))
	for l := range dist {
		if l != target {
			levels = append(levels, l)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		if dist[levels[i]] != dist[levels[j]] {
			return dist[levels[i]] > dist[levels[j]]
		}
		return levels[i].Rank() < levels[j].Rank()
	})
	return append([]domain.Level{target}, levels...)
}

type scoredQuestion struct {
	question *domain.Question
	priority float64
}

// batch accumulates chosen questions with topic caps and duplicate rejection.
type batch struct {
	topicCap   int
	chosen     []*domain.Question
	chosenIDs  map[string]struct{}
	topicCount map[string]int
}

func (b *batch) has(id string) bool {
	_, ok := b.chosenIDs[id]
	return ok
}

func (b *batch) topicFull(topic string) bool {
	return b.topicCount[topic] >= b.topicCap
}

// add appends a question unless it repeats an ID, overfills its topic, or
// nearly duplicates a prompt already chosen this batch.
func (b *batch) add(q *domain.Question) bool {
	if b.has(q.ID) || b.topicFull(q.Topic) {
		return false
	}
	for _, c := range b.chosen {
		if isNearDuplicate(q.Prompt, c.Prompt) {
			return false
		}
	}
	b.chosen = append(b.chosen, q)
	b.chosenIDs[q.ID] = struct{}{}
	b.topicCount[q.Topic]++
	return true
}

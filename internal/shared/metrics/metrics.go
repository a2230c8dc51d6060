package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisStartedTotal    atomic.Uint64
	analysisCompletedTotal  atomic.Uint64
	heuristicFallbackTotal  atomic.Uint64
	cacheHitTotal           atomic.Uint64
	cacheMissTotal          atomic.Uint64
	cacheWriteFailedTotal   atomic.Uint64
	queueJobsEnqueuedTotal  atomic.Uint64
	queueJobsFailedTotal    atomic.Uint64
	scoreComputedTotal      atomic.Uint64
	scoreFallbackTotal      atomic.Uint64
	providerFailures        = newLabeledCounter()
	providerAttempts        = newLabeledCounter()

	analysisDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() { analysisStartedTotal.Add(1) }

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }

// IncHeuristicFallback counts analyses that fell back to the offline analyzer.
func IncHeuristicFallback() { heuristicFallbackTotal.Add(1) }

// IncCacheHit counts analysis cache hits.
func IncCacheHit() { cacheHitTotal.Add(1) }

// IncCacheMiss counts analysis cache misses.
func IncCacheMiss() { cacheMissTotal.Add(1) }

// IncCacheWriteFailed counts failed analysis cache writes.
func IncCacheWriteFailed() { cacheWriteFailedTotal.Add(1) }

// IncQueueEnqueued counts jobs accepted by the analysis queue.
func IncQueueEnqueued() { queueJobsEnqueuedTotal.Add(1) }

// IncQueueJobFailed counts queue jobs that returned an error or panicked.
func IncQueueJobFailed() { queueJobsFailedTotal.Add(1) }

// IncScoreComputed counts compatibility scores served.
func IncScoreComputed() { scoreComputedTotal.Add(1) }

// IncScoreFallback counts scores computed by the deterministic path.
func IncScoreFallback() { scoreFallbackTotal.Add(1) }

// IncProviderAttempt counts a chat attempt against a named provider.
func IncProviderAttempt(provider string) { providerAttempts.Inc(provider) }

// IncProviderFailure counts a failed chat attempt against a named provider.
func IncProviderFailure(provider string) { providerFailures.Inc(provider) }

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// QueueJobsFailed returns the current failed-job count. Useful for tests.
func QueueJobsFailed() uint64 { return queueJobsFailedTotal.Load() }

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analysis_started_total", "Total analyses started", analysisStartedTotal.Load())
	writeCounter(&buf, "analysis_completed_total", "Total analyses completed", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_heuristic_fallback_total", "Total analyses served by the heuristic fallback", heuristicFallbackTotal.Load())
	writeCounter(&buf, "analysis_cache_hit_total", "Total analysis cache hits", cacheHitTotal.Load())
	writeCounter(&buf, "analysis_cache_miss_total", "Total analysis cache misses", cacheMissTotal.Load())
	writeCounter(&buf, "analysis_cache_write_failed_total", "Total failed analysis cache writes", cacheWriteFailedTotal.Load())
	writeCounter(&buf, "queue_jobs_enqueued_total", "Total jobs accepted by the analysis queue", queueJobsEnqueuedTotal.Load())
	writeCounter(&buf, "queue_jobs_failed_total", "Total queue jobs that failed", queueJobsFailedTotal.Load())
	writeCounter(&buf, "score_computed_total", "Total compatibility scores computed", scoreComputedTotal.Load())
	writeCounter(&buf, "score_heuristic_fallback_total", "Total scores computed deterministically", scoreFallbackTotal.Load())
	writeLabeledCounter(&buf, "llm_provider_attempts_total", "Total chat attempts per provider", providerAttempts)
	writeLabeledCounter(&buf, "llm_provider_failures_total", "Total failed chat attempts per provider", providerFailures)
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{counts: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[label]++
}

func (l *labeledCounter) snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts holds per-bucket tallies; Render accumulates them into the
	// cumulative form the text format requires.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, counter *labeledCounter) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	snap := counter.snapshot()
	labels := make([]string, 0, len(snap))
	for label := range snap {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(buf, "%s{provider=%q} %d\n", name, label, snap[label])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

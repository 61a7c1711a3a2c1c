package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/scoring"
	"github.com/jonathan/resume-screener/internal/skills"
)

const (
	scenarioResume = "Experienced Python developer with 5 years building ML pipelines using TensorFlow."
	scenarioJob    = "Looking for a Python and TensorFlow engineer with 6+ years of experience in machine learning."
)

func newAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	a, err := New(nil, opts...)
	require.NoError(t, err)
	return a
}

type recordingObserver struct {
	mu     sync.Mutex
	calls  []string
	scores []float64
	errs   []error
}

func (o *recordingObserver) ObserveAnalysis(strategy string, score float64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, strategy)
	o.scores = append(o.scores, score)
	o.errs = append(o.errs, err)
}

func TestAnalyze_Scenario(t *testing.T) {
	a := newAnalyzer(t)

	result, err := a.Analyze(scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "tensorflow"}, result.Matched.Sorted())
	assert.True(t, result.Missing.Has("machine learning"))
	assert.Equal(t, 5, result.ResumeYears)
	assert.Equal(t, 6, result.RequiredYears)
	assert.False(t, result.ExperienceMet())
	assert.Equal(t, 71.67, result.Score)
}

func TestAnalyze_EmptyJobText(t *testing.T) {
	a := newAnalyzer(t)

	for _, job := range []string{"", "   \n\t"} {
		result, err := a.Analyze(scenarioResume, job)
		assert.Nil(t, result)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "job_text", inputErr.Field)
		assert.Equal(t, "Please provide Job Description", inputErr.Message)
	}
}

func TestAnalyze_EmptyResumeText(t *testing.T) {
	a := newAnalyzer(t)

	_, err := a.Analyze(" ", scenarioJob)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "resume_text", inputErr.Field)
}

func TestAnalyze_IdenticalTexts(t *testing.T) {
	for _, strategy := range scoring.Strategies() {
		t.Run(strategy, func(t *testing.T) {
			a := newAnalyzer(t, WithStrategy(strategy))

			result, err := a.Analyze(scenarioJob, scenarioJob)
			require.NoError(t, err)

			assert.True(t, result.Missing.IsEmpty())
			assert.Equal(t, 100.0, result.Score)
			assert.Equal(t, strategy, result.Strategy)
		})
	}
}

func TestAnalyze_NoMatchesIsNotAnError(t *testing.T) {
	a := newAnalyzer(t)

	result, err := a.Analyze("Gardener with a love of roses", "Python engineer with 3 years")
	require.NoError(t, err)

	assert.True(t, result.Matched.IsEmpty())
	assert.Equal(t, []string{"python"}, result.Missing.Sorted())
	assert.Equal(t, 0.0, result.Score)
}

func TestAnalyze_StatisticalVocabularyError(t *testing.T) {
	obs := &recordingObserver{}
	a := newAnalyzer(t, WithObserver(obs))

	_, err := a.AnalyzeWith(scoring.StrategyStatistical, "the and of", "2024")

	var vocabErr *scoring.VocabularyError
	require.ErrorAs(t, err, &vocabErr)
	require.Len(t, obs.errs, 1)
	assert.Error(t, obs.errs[0])
	assert.Equal(t, scoring.StrategyStatistical, obs.calls[0])
}

func TestAnalyze_CustomVocabulary(t *testing.T) {
	v, err := skills.NewVocabulary([]string{"go", "kafka"})
	require.NoError(t, err)
	a, err := New(v)
	require.NoError(t, err)

	result, err := a.Analyze("Go services on Kafka", "We use Go and Kafka and Python")
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "kafka"}, result.Matched.Sorted())
	assert.True(t, result.Missing.IsEmpty())
	assert.Same(t, v, a.Vocabulary())
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(nil, WithStrategy("semantic"))
	assert.Error(t, err)

	_, err = New(nil, WithWeights(scoring.Weights{Skill: 10, Experience: 10}))
	assert.Error(t, err)
}

func TestAnalyzeRequest_Report(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	obs := &recordingObserver{}
	a := newAnalyzer(t, WithClock(func() time.Time { return fixed }), WithObserver(obs))

	report, err := a.AnalyzeRequest(context.Background(), Request{
		ResumeText: scenarioResume,
		JobText:    scenarioJob,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, fixed, report.CreatedAt)
	assert.Equal(t, scoring.StrategyOverlap, report.Strategy)
	assert.Equal(t, 71.67, report.Result.Score)
	require.Len(t, report.Suggestions, 5)
	assert.Contains(t, report.Suggestions[2], "5+ years")

	assert.Equal(t, []string{scoring.StrategyOverlap}, obs.calls)
	assert.Equal(t, []float64{71.67}, obs.scores)
}

func TestAnalyzeRequest_ValidationOrder(t *testing.T) {
	a := newAnalyzer(t)
	ctx := context.Background()

	// Job is checked before the (unreadable) file is touched.
	_, err := a.AnalyzeRequest(ctx, Request{
		ResumeFile: &ResumeFile{Name: "cv.pdf", Data: []byte("junk")},
	})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "job_text", inputErr.Field)

	_, err = a.AnalyzeRequest(ctx, Request{JobText: scenarioJob})
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "resume_text", inputErr.Field)
}

func TestAnalyzeRequest_FileTextAppended(t *testing.T) {
	a := newAnalyzer(t)

	report, err := a.AnalyzeRequest(context.Background(), Request{
		ResumeText: "Python developer with 6 years",
		ResumeFile: &ResumeFile{Name: "extra.txt", MIME: extraction.MIMEText, Data: []byte("Machine learning with TensorFlow")},
		JobText:    scenarioJob,
	})
	require.NoError(t, err)

	assert.True(t, report.Result.Missing.IsEmpty())
	assert.Equal(t, 100.0, report.Result.Score)
}

func TestAnalyzeRequest_TextFileMatchesLikePastedText(t *testing.T) {
	a := newAnalyzer(t)
	resume := "Python and machine  learning, 6 years"

	pasted, err := a.AnalyzeRequest(context.Background(), Request{ResumeText: resume, JobText: scenarioJob})
	require.NoError(t, err)
	uploaded, err := a.AnalyzeRequest(context.Background(), Request{
		ResumeFile: &ResumeFile{Name: "cv.txt", MIME: extraction.MIMEText, Data: []byte(resume)},
		JobText:    scenarioJob,
	})
	require.NoError(t, err)

	assert.Equal(t, pasted.Result.Score, uploaded.Result.Score)
	assert.True(t, pasted.Result.Matched.Equal(uploaded.Result.Matched))
	assert.False(t, uploaded.Result.Matched.Has("machine learning"))
}

func TestAnalyzeRequest_UnreadableFile(t *testing.T) {
	a := newAnalyzer(t)

	_, err := a.AnalyzeRequest(context.Background(), Request{
		ResumeText: "Python developer",
		ResumeFile: &ResumeFile{Name: "cv.pdf", MIME: extraction.MIMEPDF, Data: []byte("not a pdf")},
		JobText:    scenarioJob,
	})

	var extractionErr *extraction.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestAnalyzeRequest_UnknownStrategy(t *testing.T) {
	a := newAnalyzer(t)

	_, err := a.AnalyzeRequest(context.Background(), Request{
		ResumeText: scenarioResume,
		JobText:    scenarioJob,
		Strategy:   "semantic",
	})

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "strategy", inputErr.Field)
}

func TestAnalyzeRequest_Canceled(t *testing.T) {
	a := newAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AnalyzeRequest(ctx, Request{ResumeText: scenarioResume, JobText: scenarioJob})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a := newAnalyzer(t)
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := a.Analyze(scenarioResume, scenarioJob)
			assert.NoError(t, err)
			assert.Equal(t, 71.67, result.Score)
		}()
	}
	wg.Wait()
}

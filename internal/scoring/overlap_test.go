package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/types"
)

func newOverlap(t *testing.T) *OverlapScorer {
	t.Helper()
	s, err := NewOverlapScorer(skills.NewExtractor(skills.DefaultVocabulary()), DefaultWeights())
	require.NoError(t, err)
	return s
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr string
	}{
		{name: "default", weights: DefaultWeights()},
		{name: "all skill", weights: Weights{Skill: 100}},
		{name: "short", weights: Weights{Skill: 60, Experience: 30}, wantErr: "sum to 100"},
		{name: "negative", weights: Weights{Skill: 130, Experience: -30}, wantErr: "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOverlapScorer_Scenario(t *testing.T) {
	s := newOverlap(t)

	result, err := s.Score(
		"Experienced Python developer with 5 years building ML pipelines using TensorFlow.",
		"Looking for a Python and TensorFlow engineer with 6+ years of experience in machine learning.",
	)
	require.NoError(t, err)

	assert.Equal(t, StrategyOverlap, result.Strategy)
	assert.Equal(t, []string{"python", "tensorflow"}, result.Matched.Sorted())
	assert.Equal(t, []string{"machine learning"}, result.Missing.Sorted())
	assert.Equal(t, 5, result.ResumeYears)
	assert.Equal(t, 6, result.RequiredYears)
	assert.True(t, result.RequirementStated)
	assert.False(t, result.ExperienceMet())
	// 2/3 * 70 + 5/6 * 30
	assert.Equal(t, 71.67, result.Score)
}

func TestOverlapScorer_IdenticalTextsScoreMaximum(t *testing.T) {
	s := newOverlap(t)
	text := "Senior engineer, 8 years of Python, SQL and Docker on AWS."

	result, err := s.Score(text, text)
	require.NoError(t, err)

	assert.Equal(t, []string{"aws", "docker", "python", "sql"}, result.Matched.Sorted())
	assert.True(t, result.Missing.IsEmpty())
	assert.Equal(t, 100.0, result.Score)
}

func TestOverlapScorer_IdenticalTextsWithoutVocabularySkills(t *testing.T) {
	s := newOverlap(t)
	text := "Seasoned barista, 3 years pouring espresso."

	result, err := s.Score(text, text)
	require.NoError(t, err)

	// No job skills to cover, so only the experience term counts.
	assert.True(t, result.Matched.IsEmpty())
	assert.True(t, result.Missing.IsEmpty())
	assert.True(t, result.ExperienceMet())
	assert.Equal(t, 30.0, result.Score)
}

func TestOverlapScorer_RequirementStated(t *testing.T) {
	s := newOverlap(t)

	result, err := s.Score("Python, 2 years", "Python role, 0 years of experience needed")
	require.NoError(t, err)
	assert.True(t, result.RequirementStated)
	assert.Equal(t, 0, result.RequiredYears)

	result, err = s.Score("Python, 2 years", "Python role")
	require.NoError(t, err)
	assert.False(t, result.RequirementStated)

	sets := s.ScoreSets(types.NewSkillSet("python"), types.NewSkillSet("python"), 2, 0)
	assert.False(t, sets.RequirementStated)
	sets = s.ScoreSets(types.NewSkillSet("python"), types.NewSkillSet("python"), 2, 5)
	assert.False(t, sets.RequirementStated)
}

func TestOverlapScorer_ScoreSets(t *testing.T) {
	s := newOverlap(t)

	tests := []struct {
		name          string
		resume        types.SkillSet
		job           types.SkillSet
		resumeYears   int
		requiredYears int
		want          float64
	}{
		{
			name:   "no job skills, no requirement",
			resume: types.NewSkillSet("python"),
			job:    types.NewSkillSet(),
			want:   30,
		},
		{
			name:          "disjoint skills, zero years against requirement",
			resume:        types.NewSkillSet("python"),
			job:           types.NewSkillSet("rust"),
			requiredYears: 5,
			want:          0,
		},
		{
			name:          "full coverage, exceeds requirement",
			resume:        types.NewSkillSet("python", "sql", "aws"),
			job:           types.NewSkillSet("python", "sql"),
			resumeYears:   10,
			requiredYears: 3,
			want:          100,
		},
		{
			name:          "half coverage, half experience",
			resume:        types.NewSkillSet("python"),
			job:           types.NewSkillSet("python", "sql"),
			resumeYears:   2,
			requiredYears: 4,
			want:          50,
		},
		{
			name:          "one of three, exact requirement",
			resume:        types.NewSkillSet("docker"),
			job:           types.NewSkillSet("docker", "kubernetes", "aws"),
			resumeYears:   3,
			requiredYears: 3,
			want:          53.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.ScoreSets(tt.resume, tt.job, tt.resumeYears, tt.requiredYears)

			assert.Equal(t, tt.want, result.Score)
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 100.0)

			// matched and missing partition the job skills
			assert.True(t, result.Matched.Union(result.Missing).Equal(tt.job))
			assert.True(t, result.Matched.Intersect(result.Missing).IsEmpty())
		})
	}
}

func TestOverlapScorer_CustomWeights(t *testing.T) {
	s, err := NewOverlapScorer(skills.NewExtractor(skills.DefaultVocabulary()), Weights{Skill: 100})
	require.NoError(t, err)

	result := s.ScoreSets(types.NewSkillSet("python"), types.NewSkillSet("python", "sql"), 0, 10)
	assert.Equal(t, 50.0, result.Score)

	_, err = NewOverlapScorer(skills.NewExtractor(skills.DefaultVocabulary()), Weights{Skill: 50})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	extractor := skills.NewExtractor(skills.DefaultVocabulary())

	s, err := New("", extractor)
	require.NoError(t, err)
	assert.Equal(t, StrategyOverlap, s.Name())

	s, err = New(StrategyStatistical, nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyStatistical, s.Name())

	_, err = New(StrategyOverlap, nil)
	assert.Error(t, err)

	_, err = New("semantic", extractor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scoring strategy")

	_, err = New(StrategyOverlap, extractor, WithWeights(Weights{Skill: 1}))
	assert.Error(t, err)
}

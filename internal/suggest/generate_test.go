package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

func TestGenerate_Scenario(t *testing.T) {
	got := Generate(
		types.NewSkillSet("tensorflow", "python"),
		types.NewSkillSet("machine learning"),
		5,
	)

	assert.Equal(t, types.SuggestionList{
		"Applied Python in real-world projects to deliver scalable and efficient solutions.",
		"Applied Tensorflow in real-world projects to deliver scalable and efficient solutions.",
		"Demonstrated 5+ years of hands-on experience working on production-level systems.",
		"Currently enhancing expertise in machine learning to align with advanced role requirements.",
		"Optimized solutions following ATS best practices and industry-aligned keywords.",
	}, got)
}

func TestGenerate_TitleCasesMultiWordSkills(t *testing.T) {
	got := Generate(types.NewSkillSet("machine learning"), types.NewSkillSet(), 0)

	require.Len(t, got, 2)
	assert.Contains(t, got[0], "Applied Machine Learning in")
}

func TestGenerate_OnlyClosingBullet(t *testing.T) {
	got := Generate(types.NewSkillSet(), types.NewSkillSet(), 0)
	assert.Equal(t, types.SuggestionList{closingBullet}, got)
}

func TestGenerate_CapsMissingSkills(t *testing.T) {
	missing := types.NewSkillSet("zoho", "sql", "aws", "docker", "nlp", "pandas", "api")

	got := Generate(types.NewSkillSet(), missing, 0)

	require.Len(t, got, 2)
	assert.Equal(t,
		"Currently enhancing expertise in api, aws, docker, nlp, pandas to align with advanced role requirements.",
		got[0])
}

func TestGenerate_Deterministic(t *testing.T) {
	matched := types.NewSkillSet("docker", "aws", "kubernetes", "python")
	missing := types.NewSkillSet("sql", "nlp")

	first := Generate(matched, missing, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Generate(matched, missing, 3))
	}
}

func TestFromResult(t *testing.T) {
	r := &types.MatchResult{
		Matched:     types.NewSkillSet("sql"),
		Missing:     types.NewSkillSet(),
		ResumeYears: 2,
	}

	got := FromResult(r)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "Applied Sql")
	assert.Contains(t, got[1], "2+ years")

	assert.Equal(t, types.SuggestionList{closingBullet}, FromResult(nil))
}

package scoring

import (
	"math"

	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

// StatisticalScorer scores by TF-IDF cosine similarity between the resume and
// the job description. Document frequencies come from these two documents
// only, so scores compare candidates for one posting but not across postings.
type StatisticalScorer struct {
	stopWords parsing.StopWords
}

// NewStatisticalScorer returns a statistical scorer that drops stopWords.
func NewStatisticalScorer(stopWords parsing.StopWords) *StatisticalScorer {
	return &StatisticalScorer{stopWords: stopWords}
}

// Name returns StrategyStatistical.
func (s *StatisticalScorer) Name() string {
	return StrategyStatistical
}

// Score returns cosine similarity ×100 as the score. Matched and missing are
// the plain token overlap, not the weighted one. Years are extracted from the
// raw texts so experience can still be reported.
func (s *StatisticalScorer) Score(resumeText, jobText string) (*types.MatchResult, error) {
	resume := parsing.NewDocument(resumeText, parsing.ModeStatistical, s.stopWords)
	job := parsing.NewDocument(jobText, parsing.ModeStatistical, s.stopWords)

	similarity, err := Similarity(resume, job)
	if err != nil {
		return nil, err
	}

	resumeTokens := types.NewSkillSet(resume.Tokens...)
	jobTokens := types.NewSkillSet(job.Tokens...)

	requiredYears, stated := parsing.ExtractExperience(jobText)

	return &types.MatchResult{
		Strategy:          StrategyStatistical,
		Score:             round2(similarity * 100),
		Matched:           resumeTokens.Intersect(jobTokens),
		Missing:           jobTokens.Difference(resumeTokens),
		ResumeYears:       parsing.ExtractYears(resumeText),
		RequiredYears:     requiredYears,
		RequirementStated: stated,
	}, nil
}

// Similarity returns the cosine similarity in [0, 1] of the TF-IDF vectors
// (unigrams and bigrams) of two documents.
func Similarity(a, b types.Document) (float64, error) {
	switch {
	case a.IsEmpty() && b.IsEmpty():
		return 0, &VocabularyError{Document: "resume and job description"}
	case a.IsEmpty():
		return 0, &VocabularyError{Document: "resume"}
	case b.IsEmpty():
		return 0, &VocabularyError{Document: "job description"}
	}

	vectors := tfidf([][]string{ngrams(a.Tokens), ngrams(b.Tokens)})
	sim := dot(vectors[0], vectors[1])

	// Float drift can push identical documents a hair past 1
	return math.Min(math.Max(sim, 0), 1), nil
}

// ngrams returns the unigrams followed by the bigrams of tokens.
func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// tfidf builds L2-normalized TF-IDF vectors with smoothed idf:
// idf(t) = ln((1+n) / (1+df(t))) + 1.
func tfidf(docs [][]string) []map[string]float64 {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]int)
	for i, terms := range docs {
		counts[i] = make(map[string]float64, len(terms))
		for _, term := range terms {
			counts[i][term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	n := float64(len(docs))
	vectors := make([]map[string]float64, len(docs))
	for i, tf := range counts {
		vec := make(map[string]float64, len(tf))
		var norm float64
		for term, count := range tf {
			w := count * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			vec[term] = w
			norm += w * w
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// dot iterates the smaller vector.
func dot(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}

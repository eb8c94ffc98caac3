package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\w\w+`)

// stopWords is the English stop list applied before weighting.
var stopWords = func() map[string]struct{} {
	words := strings.Fields(`a about above across after afterwards again against all almost alone along
		already also although always am among amongst an and another any anyhow anyone anything anyway
		anywhere are around as at back be became because become becomes becoming been before beforehand
		behind being below beside besides between beyond both but by can cannot could did do does doing
		done down due during each eg either else elsewhere enough etc even ever every everyone everything
		everywhere except few for former formerly from further get give go had has have he hence her here
		hereafter hereby herein hereupon hers herself him himself his how however ie if in indeed into is
		it its itself just last latter latterly least less made many may me meanwhile might mine more
		moreover most mostly much must my myself namely neither never nevertheless next no nobody none
		noone nor not nothing now nowhere of off often on once one only onto or other others otherwise our
		ours ourselves out over own per perhaps please put rather re same see seem seemed seeming seems
		several she should since so some somehow someone something sometime sometimes somewhere still such
		than that the their them themselves then thence there thereafter thereby therefore therein
		thereupon these they this those though through throughout thru thus to together too toward towards
		under until up upon us very via was we well were what whatever when whence whenever where
		whereafter whereas whereby wherein whereupon wherever whether which while whither who whoever whole
		whom whose why will with within without would yet you your yours yourself yourselves`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// tokenize lower-cases text and returns its non-stop-word tokens of two or more word characters.
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := stopWords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// vector is a sparse, L2-normalised term weight vector.
type vector map[int]float64

func (v vector) dot(o vector) float64 {
	if len(o) < len(v) {
		v, o = o, v
	}
	var sum float64
	for k, w := range v {
		sum += w * o[k]
	}
	return sum
}

// TFIDF is a fitted term-frequency / inverse-document-frequency model over a fixed corpus.
type TFIDF struct {
	vocab map[string]int
	idf   []float64
	docs  []vector
}

// FitTFIDF builds the model from texts. At most maxFeatures terms are kept, preferring the
// most frequent across the corpus.
func FitTFIDF(texts []string, maxFeatures int) *TFIDF {
	tokens := make([][]string, len(texts))
	total := make(map[string]int)
	for i, text := range texts {
		tokens[i] = tokenize(text)
		for _, t := range tokens[i] {
			total[t]++
		}
	}

	terms := make([]string, 0, len(total))
	for t := range total {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	m := &TFIDF{vocab: make(map[string]int, len(terms)), idf: make([]float64, len(terms))}
	for i, t := range terms {
		m.vocab[t] = i
	}

	df := make([]int, len(terms))
	for _, doc := range tokens {
		seen := make(map[int]struct{})
		for _, t := range doc {
			if idx, ok := m.vocab[t]; ok {
				if _, dup := seen[idx]; !dup {
					seen[idx] = struct{}{}
					df[idx]++
				}
			}
		}
	}
	n := float64(len(texts))
	for i := range m.idf {
		m.idf[i] = math.Log((1+n)/(1+float64(df[i]))) + 1
	}

	m.docs = make([]vector, len(tokens))
	for i, doc := range tokens {
		m.docs[i] = m.weigh(doc)
	}
	return m
}

func (m *TFIDF) weigh(tokens []string) vector {
	v := make(vector)
	for _, t := range tokens {
		if idx, ok := m.vocab[t]; ok {
			v[idx]++
		}
	}
	var norm float64
	for idx, tf := range v {
		w := tf * m.idf[idx]
		v[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for idx := range v {
		v[idx] /= norm
	}
	return v
}

// Similarities returns the cosine similarity of query to every corpus document, in corpus order.
func (m *TFIDF) Similarities(query string) []float64 {
	q := m.weigh(tokenize(query))
	out := make([]float64, len(m.docs))
	if len(q) == 0 {
		return out
	}
	for i, d := range m.docs {
		out[i] = q.dot(d)
	}
	return out
}

// Terms returns the number of terms in the vocabulary.
func (m *TFIDF) Terms() int {
	return len(m.vocab)
}

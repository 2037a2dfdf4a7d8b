// Package testkit provides scripted problem models and recording reporters
// for exercising the search engine without a real domain.
package testkit

import (
	"fmt"
	"sort"
)

// GraphProblem is a finite, fully scripted problem over string states.
// Edges, scores, and goals are fixed up front; Score calls are recorded so
// tests can assert how often and in what order states were scored.
type GraphProblem struct {
	StartState string
	Edges      map[string][]string
	Scores     map[string]float64
	Goals      map[string]bool
	StartErr   error
	ScoreErrs  map[string]error

	ScoreCalls []string // every state passed to Score, in call order
}

func NewGraphProblem(start string) *GraphProblem {
	return &GraphProblem{
		StartState: start,
		Edges:      make(map[string][]string),
		Scores:     make(map[string]float64),
		Goals:      make(map[string]bool),
		ScoreErrs:  make(map[string]error),
	}
}

// AddState registers a state with its score and outgoing edges.
func (g *GraphProblem) AddState(name string, score float64, neighbors ...string) *GraphProblem {
	g.Scores[name] = score
	g.Edges[name] = neighbors
	return g
}

// MarkGoal makes a state satisfy the goal predicate.
func (g *GraphProblem) MarkGoal(name string) *GraphProblem {
	g.Goals[name] = true
	return g
}

func (g *GraphProblem) Start() (string, error) {
	if g.StartErr != nil {
		return "", g.StartErr
	}
	return g.StartState, nil
}

func (g *GraphProblem) Neighbors(s string) []string {
	return g.Edges[s]
}

func (g *GraphProblem) Score(s string) (float64, error) {
	g.ScoreCalls = append(g.ScoreCalls, s)
	if err := g.ScoreErrs[s]; err != nil {
		return 0, err
	}
	return g.Scores[s], nil
}

func (g *GraphProblem) IsGoal(s string, _ float64) bool {
	return g.Goals[s]
}

func (g *GraphProblem) Describe(s string) string {
	return fmt.Sprintf("state(%s)", s)
}

// ReachableStates returns all states reachable from the start, sorted.
func (g *GraphProblem) ReachableStates() []string {
	seen := map[string]bool{g.StartState: true}
	queue := []string{g.StartState}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, n := range g.Edges[s] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Recorder captures the report stream of a run.
type Recorder[S comparable] struct {
	States    []S
	Fitnesses []float64
}

func (r *Recorder[S]) Report(s S, fitness float64) {
	r.States = append(r.States, s)
	r.Fitnesses = append(r.Fitnesses, fitness)
}

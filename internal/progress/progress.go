// Package progress derives completion figures for projects. Nothing is
// cached; every call reads the current store contents.
package progress

import "github.com/baiirun/things/internal/model"

// Source is the part of the store the aggregates read.
type Source interface {
	Count(pred func(model.Item) bool) int
	Query(pred func(model.Item) bool, cmp func(a, b model.Item) int) []model.Item
}

// Summary is a project's task counts and completed fraction.
type Summary struct {
	Total     int
	Completed int
	Progress  float64
}

// Engine computes aggregates over a Source.
type Engine struct {
	src Source
}

func New(src Source) *Engine {
	return &Engine{src: src}
}

// TotalTasks counts the tasks filed under the project.
func (e *Engine) TotalTasks(project model.Item) int {
	if !project.IsProject() {
		return 0
	}
	return e.src.Count(func(it model.Item) bool {
		return it.InProject(project.ID)
	})
}

// CompletedTasks counts the done tasks filed under the project.
func (e *Engine) CompletedTasks(project model.Item) int {
	if !project.IsProject() {
		return 0
	}
	return e.src.Count(func(it model.Item) bool {
		return it.InProject(project.ID) && it.Done
	})
}

// Progress is completed/total, or 0 for a project with no tasks.
func (e *Engine) Progress(project model.Item) float64 {
	return e.Summarize(project).Progress
}

// Summarize computes all three figures from a single read.
func (e *Engine) Summarize(project model.Item) Summary {
	if !project.IsProject() {
		return Summary{}
	}
	tasks := e.src.Query(func(it model.Item) bool {
		return it.InProject(project.ID)
	}, nil)
	s := Summary{Total: len(tasks)}
	for _, it := range tasks {
		if it.Done {
			s.Completed++
		}
	}
	s.Progress = Fraction(s.Completed, s.Total)
	return s
}

// Fraction is completed/total clamped to [0,1], with 0 for an empty total.
func Fraction(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 1
	}
	return float64(completed) / float64(total)
}

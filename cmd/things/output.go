package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/progress"
)

// ItemJSON is the --json form of an item.
type ItemJSON struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Notes      string  `json:"notes,omitempty"`
	Done       bool    `json:"done"`
	ProjectID  *string `json:"project_id,omitempty"`
	GroupID    *string `json:"group_id,omitempty"`
	Due        *string `json:"due,omitempty"`
	DueLabel   string  `json:"due_label,omitempty"`
	OrderIndex int     `json:"order_index"`
}

// ProjectJSON is an item plus its task counts.
type ProjectJSON struct {
	ItemJSON
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Progress  float64 `json:"progress"`
}

// GroupJSON is a group plus the number of projects filed under it.
type GroupJSON struct {
	ItemJSON
	Projects int `json:"projects"`
}

// DetailJSON is the output of show.
type DetailJSON struct {
	Item  any        `json:"item"`
	Tasks []ItemJSON `json:"tasks,omitempty"`
}

func toItemJSON(it model.Item, now time.Time) ItemJSON {
	out := ItemJSON{
		ID:         it.ID,
		Kind:       string(it.Kind),
		Title:      it.Title,
		Notes:      it.Details,
		Done:       it.Done,
		ProjectID:  it.ProjectID,
		GroupID:    it.GroupID,
		OrderIndex: it.OrderIndex,
	}
	if it.DueDate != nil {
		s := it.DueDate.Format(time.RFC3339)
		out.Due = &s
		out.DueLabel = current.locale.Label(*it.DueDate, now)
	}
	return out
}

func toProjectJSON(it model.Item, now time.Time) ProjectJSON {
	sum := current.progress.Summarize(it)
	return ProjectJSON{
		ItemJSON:  toItemJSON(it, now),
		Total:     sum.Total,
		Completed: sum.Completed,
		Progress:  sum.Progress,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printItems(cmd *cobra.Command, items []model.Item) error {
	w := cmd.OutOrStdout()
	now := current.views.Now()
	if flagJSON {
		out := make([]ItemJSON, 0, len(items))
		for _, it := range items {
			out = append(out, toItemJSON(it, now))
		}
		return writeJSON(w, out)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing here.")
		return nil
	}
	for _, it := range items {
		fmt.Fprintln(w, formatLine(it, now))
	}
	return nil
}

func printProjects(cmd *cobra.Command, projects []model.Item) error {
	w := cmd.OutOrStdout()
	now := current.views.Now()
	if flagJSON {
		out := make([]ProjectJSON, 0, len(projects))
		for _, p := range projects {
			out = append(out, toProjectJSON(p, now))
		}
		return writeJSON(w, out)
	}
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects.")
		return nil
	}
	for _, p := range projects {
		sum := current.progress.Summarize(p)
		fmt.Fprintf(w, "%s  %s  %s %d/%d\n", shortID(p.ID), p.Title, progressBar(sum, 10), sum.Completed, sum.Total)
	}
	return nil
}

func printGroups(cmd *cobra.Command, groups []model.Item) error {
	w := cmd.OutOrStdout()
	now := current.views.Now()
	if flagJSON {
		out := make([]GroupJSON, 0, len(groups))
		for _, g := range groups {
			out = append(out, GroupJSON{
				ItemJSON: toItemJSON(g, now),
				Projects: len(current.views.GroupProjects(g.ID)),
			})
		}
		return writeJSON(w, out)
	}
	if len(groups) == 0 {
		fmt.Fprintln(w, "No groups.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s  %s  (%d projects)\n", shortID(g.ID), g.Title, len(current.views.GroupProjects(g.ID)))
	}
	return nil
}

func printDetail(cmd *cobra.Command, item model.Item) error {
	w := cmd.OutOrStdout()
	now := current.views.Now()

	var tasks []model.Item
	if item.IsProject() {
		tasks = current.views.ProjectTasks(item.ID)
	}

	if flagJSON {
		detail := DetailJSON{Item: toItemJSON(item, now)}
		if item.IsProject() {
			detail.Item = toProjectJSON(item, now)
		}
		for _, t := range tasks {
			detail.Tasks = append(detail.Tasks, toItemJSON(t, now))
		}
		return writeJSON(w, detail)
	}

	fmt.Fprintf(w, "%s  %s\n", item.Kind, item.ID)
	fmt.Fprintf(w, "Title: %s\n", item.Title)
	if item.IsTask() {
		fmt.Fprintf(w, "Done:  %t\n", item.Done)
	}
	if item.DueDate != nil {
		fmt.Fprintf(w, "Due:   %s (%s)\n",
			current.locale.FormatAbsolute(*item.DueDate), current.locale.Label(*item.DueDate, now))
	}
	if item.ProjectID != nil {
		fmt.Fprintf(w, "Project: %s\n", shortID(*item.ProjectID))
	}
	if item.GroupID != nil {
		fmt.Fprintf(w, "Group: %s\n", shortID(*item.GroupID))
	}
	if item.Details != "" {
		fmt.Fprintf(w, "\n%s\n", item.Details)
	}
	if item.IsProject() {
		sum := current.progress.Summarize(item)
		fmt.Fprintf(w, "\nProgress: %s %d/%d\n", progressBar(sum, 20), sum.Completed, sum.Total)
		for _, t := range tasks {
			fmt.Fprintln(w, formatLine(t, now))
		}
	}
	return nil
}

func printCreated(cmd *cobra.Command, item model.Item) error {
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), toItemJSON(item, current.views.Now()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s: %s\n", item.Kind, shortID(item.ID), item.Title)
	return nil
}

func printUpdated(cmd *cobra.Command, item model.Item) error {
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), toItemJSON(item, current.views.Now()))
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatLine(item, current.views.Now()))
	return nil
}

func formatLine(it model.Item, now time.Time) string {
	var b strings.Builder
	b.WriteString(shortID(it.ID))
	b.WriteString("  ")
	switch {
	case it.IsProject():
		b.WriteString("[P] ")
	case it.IsGroup():
		b.WriteString("[G] ")
	case it.Done:
		b.WriteString("[x] ")
	default:
		b.WriteString("[ ] ")
	}
	b.WriteString(it.Title)
	if it.DueDate != nil {
		fmt.Fprintf(&b, "  (%s)", current.locale.Label(*it.DueDate, now))
	}
	return b.String()
}

func progressBar(sum progress.Summary, width int) string {
	filled := int(sum.Progress * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

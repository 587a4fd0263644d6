package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/tui"
)

var (
	flagProject string
	flagGroup   string
	flagDue     string
	flagNotes   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and database",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", current.cfg.DBPath)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task (in the inbox unless --project or --group is given)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []model.Option{
			model.WithTitle(strings.Join(args, " ")),
			model.WithDetails(flagNotes),
		}
		if flagDue != "" {
			due, err := parseDue(flagDue, current.views.Now())
			if err != nil {
				return err
			}
			opts = append(opts, model.WithDueDate(due))
		}
		if flagGroup != "" {
			group, err := resolveID(flagGroup)
			if err != nil {
				return err
			}
			opts = append(opts, model.WithGroup(group.ID))
		}

		var item model.Item
		if flagProject != "" {
			project, err := resolveID(flagProject)
			if err != nil {
				return err
			}
			draft, err := current.store.CreateDraft(model.KindTask, opts...)
			if err != nil {
				return err
			}
			item, err = current.order.Append(project.ID, draft.ID)
			if err != nil {
				_ = current.store.DiscardDraft(draft.ID)
				return err
			}
		} else {
			var err error
			item, err = current.store.Create(model.KindTask, opts...)
			if err != nil {
				return err
			}
		}
		return printCreated(cmd, item)
	},
}

var projectCmd = &cobra.Command{
	Use:   "project [title]",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []model.Option{
			model.WithTitle(strings.Join(args, " ")),
			model.WithDetails(flagNotes),
		}
		if flagGroup != "" {
			group, err := resolveID(flagGroup)
			if err != nil {
				return err
			}
			opts = append(opts, model.WithGroup(group.ID))
		}
		item, err := current.store.Create(model.KindProject, opts...)
		if err != nil {
			return err
		}
		return printCreated(cmd, item)
	},
}

var groupCmd = &cobra.Command{
	Use:   "group <title>",
	Short: "Create a group (area) for projects",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := current.store.Create(model.KindGroup, model.WithTitle(strings.Join(args, " ")))
		if err != nil {
			return err
		}
		return printCreated(cmd, item)
	},
}

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List inbox tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printItems(cmd, current.views.Inbox())
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List tasks due today or overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printItems(cmd, current.views.Today())
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List tasks due tomorrow or later",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printItems(cmd, current.views.Upcoming())
	},
}

var logbookCmd = &cobra.Command{
	Use:   "logbook",
	Short: "List completed tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printItems(cmd, current.views.Logbook())
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagGroup != "" {
			group, err := resolveID(flagGroup)
			if err != nil {
				return err
			}
			return printProjects(cmd, current.views.GroupProjects(group.ID))
		}
		return printProjects(cmd, current.views.AllProjects())
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List groups with their project counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printGroups(cmd, current.views.Groups())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an item; a project also lists its open tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveID(args[0])
		if err != nil {
			return err
		}
		return printDetail(cmd, item)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find items whose title contains text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printItems(cmd, current.views.Search(strings.Join(args, " ")))
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDone(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a task as not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDone(cmd, args[0], false)
	},
}

var dueCmd = &cobra.Command{
	Use:   "due <id> <today|tonight|tomorrow|YYYY-MM-DD [HH:MM]|none>",
	Short: "Set or clear a task's due date",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveID(args[0])
		if err != nil {
			return err
		}
		due, err := parseDue(strings.Join(args[1:], " "), current.views.Now())
		if err != nil {
			return err
		}
		updated, err := current.store.Update(item.ID, model.WithDueDate(due))
		if err != nil {
			return err
		}
		return printUpdated(cmd, updated)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a task to a 1-based position within its project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveID(args[0])
		if err != nil {
			return err
		}
		if item.ProjectID == nil {
			return model.Invalid("task %s is not in a project", shortID(item.ID))
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return model.Invalid("position %q is not a number", args[1])
		}

		tasks, err := current.order.Tasks(*item.ProjectID)
		if err != nil {
			return err
		}
		from := -1
		for i, it := range tasks {
			if it.ID == item.ID {
				from = i
			}
		}
		if from < 0 {
			return model.Invalid("task %s is not open", shortID(item.ID))
		}
		ordered, err := current.order.Move(*item.ProjectID, item.ID, from, pos-1)
		if err != nil {
			return err
		}
		return printItems(cmd, ordered)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Change an item's title",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveID(args[0])
		if err != nil {
			return err
		}
		updated, err := current.store.Update(item.ID, model.WithTitle(strings.Join(args[1:], " ")))
		if err != nil {
			return err
		}
		return printUpdated(cmd, updated)
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Replace an item's notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveID(args[0])
		if err != nil {
			return err
		}
		updated, err := current.store.Update(item.ID, model.WithDetails(strings.Join(args[1:], " ")))
		if err != nil {
			return err
		}
		return printUpdated(cmd, updated)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an item; deleting a project deletes its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveID(args[0])
		if err != nil {
			return err
		}
		if err := current.store.Delete(item.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", item.Kind, shortID(item.ID))
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(tui.Deps{
			Store:    current.store,
			Views:    current.views,
			Order:    current.order,
			Progress: current.progress,
			Locale:   current.locale,
			Delay:    current.delay,
		})
	},
}

func setDone(cmd *cobra.Command, ref string, done bool) error {
	item, err := resolveID(ref)
	if err != nil {
		return err
	}
	if !item.IsTask() {
		return model.Invalid("%s %s cannot be completed", item.Kind, shortID(item.ID))
	}
	updated, err := current.store.Update(item.ID, model.WithDone(done))
	if err != nil {
		return err
	}
	return printUpdated(cmd, updated)
}

func init() {
	addCmd.Flags().StringVarP(&flagProject, "project", "p", "", "project id")
	addCmd.Flags().StringVarP(&flagGroup, "group", "g", "", "group id")
	addCmd.Flags().StringVarP(&flagDue, "due", "d", "", "due date (today, tonight, tomorrow, YYYY-MM-DD [HH:MM])")
	addCmd.Flags().StringVarP(&flagNotes, "notes", "n", "", "notes")

	projectCmd.Flags().StringVarP(&flagGroup, "group", "g", "", "group id")
	projectCmd.Flags().StringVarP(&flagNotes, "notes", "n", "", "notes")

	projectsCmd.Flags().StringVarP(&flagGroup, "group", "g", "", "only projects of this group")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(logbookCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(tuiCmd)
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/christianWissmann85/claude-memory-hook/internal/cli"
	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/model"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List all projects with memory databases",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

type projectRow struct {
	dir     string
	current bool
	summary *model.ProjectSummary
}

func runProjects(_ *cobra.Command, _ []string) error {
	// Best-effort: outside any project this still lists the others.
	currentDir, _ := resolveProject()

	discovered, err := config.DiscoverProjectStores()
	if err != nil {
		return err
	}

	var (
		projects      []projectRow
		totalSessions int64
		totalNotes    int64
	)

	for _, d := range discovered {
		st, err := store.OpenReadOnly(d.DBPath)
		if err != nil {
			// Skip stores that are locked or corrupt; the rest still render.
			continue
		}
		summary, err := st.ProjectSummary()
		_ = st.Close()
		if err != nil {
			continue
		}

		projects = append(projects, projectRow{
			dir:     d.ProjectDir,
			current: d.ProjectDir == currentDir,
			summary: summary,
		})
		totalSessions += summary.SessionCount
		totalNotes += summary.NoteCount
	}

	if len(projects) == 0 {
		fmt.Println("No projects with memory databases found.")
		return nil
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].current != projects[j].current {
			return projects[i].current
		}
		return projects[i].summary.LastSession > projects[j].summary.LastSession
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROJECT MEMORY"))
	fmt.Println()

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		name := p.dir
		if p.current {
			name += " (current)"
		}
		lastActive := "-"
		if p.summary.LastSession != "" {
			lastActive = datePart(p.summary.LastSession)
		}
		branch := p.summary.LastBranch
		if branch == "" {
			branch = "-"
		}

		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", p.summary.SessionCount),
			fmt.Sprintf("%d", p.summary.NoteCount),
			lastActive,
			branch,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Project", "Sessions", "Notes", "Last Active", "Branch"},
		Rows:    rows,
	}))

	fmt.Printf("\n  Total: %d sessions, %d notes across %d projects\n",
		totalSessions, totalNotes, len(projects))

	return nil
}
